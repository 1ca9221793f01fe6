package fingerprint

import (
	"strings"
	"testing"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/errors"
)

func identityFunc(a artifact.Artifact) ([]byte, string, error) {
	return a.Payload, a.SideChannel, nil
}

func TestNew_RequiresVersion(t *testing.T) {
	_, err := New("", identityFunc)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestNew_RequiresFunc(t *testing.T) {
	_, err := New("v1", nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestEntry_StableAcrossCalls(t *testing.T) {
	tr, err := New("v1", identityFunc)
	if err != nil {
		t.Fatal(err)
	}
	a := artifact.New("photo.jpg", []byte("pixels"))
	if Format(tr.Entry(a)) != Format(tr.Entry(a)) {
		t.Error("expected identical fingerprints for identical input")
	}
}

func TestEntry_SensitiveToPayload(t *testing.T) {
	tr, _ := New("v1", identityFunc)
	a := artifact.New("photo.jpg", []byte("pixels"))
	b := artifact.New("photo.jpg", []byte("other pixels"))
	if tr.Entry(a) == tr.Entry(b) {
		t.Error("expected different fingerprints for different payloads")
	}
}

func TestEntry_SensitiveToName(t *testing.T) {
	tr, _ := New("v1", identityFunc)
	a := artifact.New("photo.jpg", []byte("pixels"))
	b := artifact.New("other.jpg", []byte("pixels"))
	if tr.Entry(a) == tr.Entry(b) {
		t.Error("expected different fingerprints for different names")
	}
}

func TestEntry_SensitiveToVersion(t *testing.T) {
	tr1, _ := New("v1", identityFunc)
	tr2, _ := New("v2", identityFunc)
	a := artifact.New("photo.jpg", []byte("pixels"))
	if tr1.Entry(a) == tr2.Entry(a) {
		t.Error("expected different fingerprints for different version tokens")
	}
}

func TestEntry_SensitiveToParams(t *testing.T) {
	base, _ := New("v1", identityFunc)
	q80, err := base.WithParams(map[string]int{"quality": 80})
	if err != nil {
		t.Fatal(err)
	}
	q90, err := base.WithParams(map[string]int{"quality": 90})
	if err != nil {
		t.Fatal(err)
	}

	a := artifact.New("photo.jpg", []byte("pixels"))
	if q80.Entry(a) == q90.Entry(a) {
		t.Error("expected different fingerprints for different captured params")
	}
	if base.Entry(a) == q80.Entry(a) {
		t.Error("expected params to change the fingerprint relative to no params")
	}
}

func TestEntry_NoSeparatorAmbiguity(t *testing.T) {
	tr, _ := New("v1", identityFunc)
	// payload "ab" + name "c.txt" must not collide with "a" + "bc.txt".
	a := artifact.New("c.txt", []byte("ab"))
	b := artifact.New("bc.txt", []byte("a"))
	if tr.Entry(a) == tr.Entry(b) {
		t.Error("expected length-prefixing to prevent boundary collisions")
	}
}

func TestWithParams_NotSerializable(t *testing.T) {
	tr, _ := New("v1", identityFunc)
	_, err := tr.WithParams(func() {})
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestFormatParse_RoundTrip(t *testing.T) {
	tr, _ := New("v1", identityFunc)
	h := tr.Entry(artifact.New("a.txt", []byte("A")))

	encoded := Format(h)
	if len(encoded) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(encoded))
	}
	decoded, err := Parse(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != h {
		t.Error("expected round trip to preserve hash")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("zz"); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := Parse(strings.Repeat("ab", 16)); err == nil {
		t.Error("expected error for short input")
	}
}
