package phc_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/hasbyte1/go-scrypt-phc/phc"
)

func fullRecord() phc.Record {
	return phc.Record{
		ID: "scrypt",
		Params: []phc.Param{
			{Name: "ln", Value: "15"},
			{Name: "r", Value: "8"},
			{Name: "p", Value: "1"},
		},
		Salt: []byte("0123456789abcdef"),
		Hash: bytes.Repeat([]byte{0xAB}, 32),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Encode
// ──────────────────────────────────────────────────────────────────────────────

func TestEncode_FullRecord(t *testing.T) {
	s, err := phc.Encode(fullRecord())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "$scrypt$ln=15,r=8,p=1$MDEyMzQ1Njc4OWFiY2RlZg$q6urq6urq6urq6urq6urq6urq6urq6urq6urq6urq6s"
	if s != want {
		t.Errorf("Encode = %q, want %q", s, want)
	}
}

func TestEncode_OmitsAbsentSegments(t *testing.T) {
	tests := []struct {
		name string
		rec  phc.Record
		want string
	}{
		{"id only", phc.Record{ID: "scrypt"}, "$scrypt"},
		{"id and params", phc.Record{ID: "scrypt", Params: []phc.Param{{Name: "ln", Value: "15"}}}, "$scrypt$ln=15"},
		{"id and salt", phc.Record{ID: "scrypt", Salt: []byte("saltsalt")}, "$scrypt$c2FsdHNhbHQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := phc.Encode(tt.rec)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if s != tt.want {
				t.Errorf("Encode = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestEncode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rec  phc.Record
	}{
		{"empty id", phc.Record{ID: ""}},
		{"uppercase id", phc.Record{ID: "Scrypt"}},
		{"id with dollar", phc.Record{ID: "scr$ypt"}},
		{"bad param name", phc.Record{ID: "scrypt", Params: []phc.Param{{Name: "L=N", Value: "1"}}}},
		{"empty param value", phc.Record{ID: "scrypt", Params: []phc.Param{{Name: "ln", Value: ""}}}},
		{"hash without salt", phc.Record{ID: "scrypt", Hash: []byte{1}}},
		// empty-but-non-nil segments would emit strings Decode rejects
		{"empty params slice", phc.Record{ID: "scrypt", Params: []phc.Param{}}},
		{"empty salt", phc.Record{ID: "scrypt", Salt: []byte{}}},
		{"empty hash", phc.Record{ID: "scrypt", Salt: []byte("saltsalt"), Hash: []byte{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := phc.Encode(tt.rec); !errors.Is(err, phc.ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Decode
// ──────────────────────────────────────────────────────────────────────────────

func TestDecode_RoundTrip(t *testing.T) {
	records := []phc.Record{
		fullRecord(),
		{ID: "scrypt"},
		{ID: "scrypt", Params: []phc.Param{{Name: "ln", Value: "4"}, {Name: "r", Value: "1"}, {Name: "p", Value: "1"}}},
		{ID: "scrypt", Salt: []byte("saltsalt")},
		{ID: "scrypt", Salt: []byte{0x00}, Hash: []byte{0xFF, 0x00}},
	}
	for _, rec := range records {
		s, err := phc.Encode(rec)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", rec, err)
		}
		got, err := phc.Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if !reflect.DeepEqual(*got, rec) {
			t.Errorf("round trip of %q: got %+v, want %+v", s, *got, rec)
		}
	}
}

func TestEncode_RejectedRecordsDecodeNowhere(t *testing.T) {
	// The empty-salt record used to encode to "$scrypt$", which Decode
	// rejects; Encode must refuse it instead of emitting it.
	_, err := phc.Encode(phc.Record{ID: "scrypt", Salt: []byte{}})
	if !errors.Is(err, phc.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, err := phc.Decode("$scrypt$"); !errors.Is(err, phc.ErrMalformed) {
		t.Errorf(`Decode("$scrypt$"): expected ErrMalformed, got %v`, err)
	}
}

func TestDecode_VersionSegment(t *testing.T) {
	rec, err := phc.Decode("$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHQ$q6urq6s")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rec.ID != "argon2id" {
		t.Errorf("ID = %q, want %q", rec.ID, "argon2id")
	}
	want := []phc.Param{
		{Name: "v", Value: "19"},
		{Name: "m", Value: "65536"},
		{Name: "t", Value: "3"},
		{Name: "p", Value: "2"},
	}
	if !reflect.DeepEqual(rec.Params, want) {
		t.Errorf("Params = %+v, want %+v", rec.Params, want)
	}

	// Re-encoding folds the version into the parameter segment; the record
	// survives the cycle unchanged.
	encoded, err := phc.Encode(*rec)
	if err != nil {
		t.Fatal(err)
	}
	if encoded != "$argon2id$v=19,m=65536,t=3,p=2$c2FsdHNhbHQ$q6urq6s" {
		t.Errorf("re-encode = %q", encoded)
	}
	again, err := phc.Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rec, again) {
		t.Errorf("record drifted across re-encode: %+v vs %+v", *rec, *again)
	}
}

func TestDecode_PreservesParamOrder(t *testing.T) {
	rec, err := phc.Decode("$scrypt$ln=15,r=8,p=1$c2FsdHNhbHQ")
	if err != nil {
		t.Fatal(err)
	}
	want := []phc.Param{{Name: "ln", Value: "15"}, {Name: "r", Value: "8"}, {Name: "p", Value: "1"}}
	if !reflect.DeepEqual(rec.Params, want) {
		t.Errorf("Params = %+v, want %+v", rec.Params, want)
	}
}

func TestDecode_AbsentSegmentsAreNil(t *testing.T) {
	rec, err := phc.Decode("$scrypt$c2FsdHNhbHQ")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Params != nil {
		t.Errorf("Params = %+v, want nil", rec.Params)
	}
	if rec.Hash != nil {
		t.Errorf("Hash = %x, want nil", rec.Hash)
	}
	if string(rec.Salt) != "saltsalt" {
		t.Errorf("Salt = %q, want %q", rec.Salt, "saltsalt")
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no leading dollar", "scrypt$ln=15"},
		{"empty id", "$"},
		{"empty segment", "$scrypt$$c2FsdA"},
		{"uppercase id", "$SCRYPT$ln=15"},
		{"malformed param", "$scrypt$ln15,r=8"},
		{"empty param value", "$scrypt$ln=,r=8"},
		{"duplicate param", "$scrypt$ln=15,ln=16"},
		{"bad salt base64", "$scrypt$ln=15$not!base64"},
		{"bad hash base64", "$scrypt$ln=15$c2FsdA$not!base64"},
		{"too many segments", "$scrypt$ln=15$c2FsdA$c2FsdA$c2FsdA"},
		{"too many segments with version", "$scrypt$v=19$ln=15$c2FsdA$c2FsdA$c2FsdA"},
		{"duplicate version", "$scrypt$v=19$v=20$c2FsdA"},
		{"empty version", "$scrypt$v=$c2FsdA"},
		{"not a record at all", "not-a-valid-record"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := phc.Decode(tt.input); !errors.Is(err, phc.ErrMalformed) {
				t.Errorf("Decode(%q): expected ErrMalformed, got %v", tt.input, err)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Record.Param
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_Param(t *testing.T) {
	rec := fullRecord()
	if v, ok := rec.Param("r"); !ok || v != "8" {
		t.Errorf(`Param("r") = (%q, %v), want ("8", true)`, v, ok)
	}
	if _, ok := rec.Param("missing"); ok {
		t.Error(`Param("missing") should report absence`)
	}
}
