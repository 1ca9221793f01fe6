package pipeline

import (
	"testing"

	"github.com/kbukum/stagekit/artifact"
)

func TestCursor_IteratesInOrder(t *testing.T) {
	p, err := FromArtifacts(t.TempDir(), []artifact.Artifact{
		artifact.New("a.txt", []byte("A")),
		artifact.New("b.txt", []byte("B")),
	})
	if err != nil {
		t.Fatal(err)
	}

	c := p.Cursor()
	var seen []string
	for c.Next() {
		seen = append(seen, c.Current().Identity.Name)
	}
	if !equalStrings(seen, []string{"a.txt", "b.txt"}) {
		t.Errorf("expected [a.txt b.txt], got %v", seen)
	}
	if c.Next() {
		t.Error("expected exhausted cursor to keep returning false")
	}
}

func TestCursor_Reset(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), []artifact.Artifact{
		artifact.New("a.txt", []byte("A")),
	})

	c := p.Cursor()
	for c.Next() {
	}
	c.Reset()
	if !c.Next() {
		t.Fatal("expected cursor usable after reset")
	}
	if c.Current().Identity.Name != "a.txt" {
		t.Errorf("expected first artifact after reset, got %q", c.Current().Identity.Name)
	}
}

func TestCursor_Independent(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), []artifact.Artifact{
		artifact.New("a.txt", []byte("A")),
		artifact.New("b.txt", []byte("B")),
	})

	c1 := p.Cursor()
	c2 := p.Cursor()
	c1.Next()
	c1.Next()
	if !c2.Next() {
		t.Fatal("expected second cursor unaffected by first")
	}
	if c2.Current().Identity.Name != "a.txt" {
		t.Errorf("expected independent position, got %q", c2.Current().Identity.Name)
	}
}

func TestCursor_Empty(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), nil)
	c := p.Cursor()
	if c.Next() {
		t.Error("expected empty cursor to return false")
	}
}
