package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/galileo/internal/session"
)

var fixture = []session.Sample{
	{Time: 0, Angle: 5.0},
	{Time: 0.5, Angle: -3.2},
	{Time: 0.52, Angle: -68.6},
	{Time: 1.234, Angle: 0.1},
}

func TestCSVFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, fixture[:2]); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	want := "Time,Angle\n0,5\n0.5,-3.2\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, fixture); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if diff := cmp.Diff(fixture, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVColumnOrderAndExtras(t *testing.T) {
	in := "Angle, Velocity, Time\n1.5,9,0.1\n-2,9,0.2\n"
	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	want := []session.Sample{{Time: 0.1, Angle: 1.5}, {Time: 0.2, Angle: -2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVMissingColumns(t *testing.T) {
	for _, in := range []string{"", "Time,Theta\n0,1\n", "t,Angle\n"} {
		if _, err := ReadCSV(strings.NewReader(in)); !errors.Is(err, ErrMissingColumns) {
			t.Errorf("%q: expected ErrMissingColumns, got %v", in, err)
		}
	}
}

func TestReadCSVMalformedRow(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Time,Angle\n0,1\nx,2\n"))
	if !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("expected ErrMalformedRow, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected line number in %q", err)
	}
}

func TestMATRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMAT(&buf, fixture); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.Len()%8 != 0 {
		t.Errorf("expected 8-byte aligned file, got %d bytes", buf.Len())
	}
	got, err := ReadMAT(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if diff := cmp.Diff(fixture, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMATRejectsGarbage(t *testing.T) {
	if _, err := ReadMAT(strings.NewReader("Time,Angle\n")); err == nil {
		t.Error("expected error for non-MAT input")
	}
}

func TestStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "csv_data")
	st := New(dir)
	st.now = func() time.Time { return time.Date(2024, 7, 19, 15, 25, 54, 0, time.Local) }

	paths, err := st.Save(fixture, true)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "galileo_2024-07-19_15-25-54.csv"),
		filepath.Join(dir, "galileo_2024-07-19_15-25-54.mat"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	for _, p := range paths {
		got, err := Load(p)
		if err != nil {
			t.Fatalf("load %s failed: %v", p, err)
		}
		if diff := cmp.Diff(fixture, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", p, diff)
		}
	}
}

func TestStoreSaveCSVOnly(t *testing.T) {
	dir := t.TempDir()
	paths, err := New(dir).Save(nil, false)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected one file, got %v", paths)
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Time,Angle\n" {
		t.Errorf("expected header only, got %q", data)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("run.json"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
