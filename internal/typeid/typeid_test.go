package typeid

import (
	"strings"
	"testing"
)

func TestNewAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"shape", NewShapeID, PrefixShape},
		{"session", NewSessionID, PrefixSession},
		{"export", NewExportID, PrefixExport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Errorf("id %q lacks prefix %q", id, tt.prefix)
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Errorf("Validate(%q) = %v", id, err)
			}
			if tt.gen() == id {
				t.Error("ids should be unique")
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	if err := Validate(NewShapeID(), PrefixSession); err == nil {
		t.Error("wrong prefix should fail")
	}
	if err := Validate("sess_nope", PrefixSession); err == nil {
		t.Error("malformed suffix should fail")
	}
	if err := Validate("", PrefixSession); err == nil {
		t.Error("empty id should fail")
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix(NewExportID()); got != PrefixExport {
		t.Errorf("Prefix = %q", got)
	}
	if got := Prefix("7"); got != "" {
		t.Errorf("numeric id prefix = %q, want empty", got)
	}
}
