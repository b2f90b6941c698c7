package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})
	Logf("opened %s at %d baud", "/dev/ttyACM0", 115200)
	if got != "opened /dev/ttyACM0 at 115200 baud" {
		t.Errorf("unexpected message %q", got)
	}

	got = ""
	SetLogger(nil)
	Logf("muted")
	if got != "" {
		t.Errorf("no-op logger forwarded %q", got)
	}
}
