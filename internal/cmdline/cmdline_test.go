package cmdline

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractSerial(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"scrcpy --serial=ABC123 --fullscreen", "ABC123"},
		{"scrcpy --serial ABC123 --fullscreen", "ABC123"},
		{"scrcpy -s 192.168.1.5:5555", "192.168.1.5:5555"},
		{"scrcpy   -s\tR58M  --serial OTHER", "R58M"},
		{"scrcpy --max-size 800", ""},
		{"scrcpy --serial", ""},
		{"", ""},
		{"scrcpy --serial= --fullscreen", ""},
		{"scrcpy --record=out.mp4 --serial=LAST -s X", "LAST"},
	}
	for _, tc := range cases {
		if got := ExtractSerial(tc.in); got != tc.want {
			t.Fatalf("ExtractSerial(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInferConnType(t *testing.T) {
	cases := []struct {
		in   string
		want ConnType
	}{
		{"192.168.1.5:5555", ConnWiFi},
		{"10.0.0.1:1", ConnWiFi},
		{"R58M123ABC", ConnUSB},
		{"", ConnUnknown},
		{"192.168.1.5", ConnUSB},
		{"adb-R58M-abc._adb-tls-connect._tcp", ConnUSB},
		{"1234.1.1.1:5555", ConnUSB},
	}
	for _, tc := range cases {
		if got := InferConnType(tc.in); got != tc.want {
			t.Fatalf("InferConnType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractFlags(t *testing.T) {
	got := ExtractFlags("scrcpy --serial=ABC123 --fullscreen")
	if !reflect.DeepEqual(got, []string{"--fullscreen"}) {
		t.Fatalf("unexpected flags %v", got)
	}

	got = ExtractFlags("scrcpy --serial ABC --max-size 800 -s X --bit-rate=2M --no-audio")
	want := []string{"--max-size", "--bit-rate=2M", "--no-audio"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected flags %v, want %v", got, want)
	}

	if got := ExtractFlags(""); len(got) != 0 {
		t.Fatalf("expected no flags, got %v", got)
	}
}

func TestBuildIsReadBack(t *testing.T) {
	argv := Build("192.168.1.5:5555", []string{"--max-size=800", "--turn-screen-off"})
	line := "scrcpy " + strings.Join(argv, " ")
	if got := ExtractSerial(line); got != "192.168.1.5:5555" {
		t.Fatalf("serial not recovered: %q", got)
	}
	if got := ExtractFlags(line); !reflect.DeepEqual(got, []string{"--max-size=800", "--turn-screen-off"}) {
		t.Fatalf("flags not recovered: %v", got)
	}
	if got := Build("", []string{"--fullscreen"}); !reflect.DeepEqual(got, []string{"--fullscreen"}) {
		t.Fatalf("expected no serial args, got %v", got)
	}
}
