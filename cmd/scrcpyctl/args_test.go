package main

import (
	"reflect"
	"testing"

	"scrcpyctl/internal/flags"
)

func TestJoinArgsKeepsWords(t *testing.T) {
	cases := []struct {
		args []string
		want []string
	}{
		{[]string{"--window-title", "My Phone", "-m", "1024"}, []string{"--window-title", "My Phone", "-m", "1024"}},
		{[]string{`--window-title "My Phone"`}, []string{"--window-title", "My Phone"}},
		{[]string{"--push-target", `/sdcard/it's\here`, "-f"}, []string{"--push-target", `/sdcard/it's\here`, "-f"}},
	}
	for _, tc := range cases {
		res := flags.Validate(joinArgs(tc.args))
		if !res.OK || !reflect.DeepEqual(res.Args, tc.want) {
			t.Fatalf("%q: got %q (code %v)", tc.args, res.Args, res.Code)
		}
	}
	if got := joinArgs(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestPassthroughArgs(t *testing.T) {
	head, tail := passthroughArgs([]string{"low", "--", "--max-size", "800"}, 1)
	if !reflect.DeepEqual(head, []string{"low"}) || !reflect.DeepEqual(tail, []string{"--max-size", "800"}) {
		t.Fatalf("unexpected split %q / %q", head, tail)
	}
	head, tail = passthroughArgs([]string{"low", "-m", "--"}, 1)
	if !reflect.DeepEqual(tail, []string{"-m", "--"}) || len(head) != 1 {
		t.Fatalf("only a leading -- is dropped, got %q", tail)
	}
	head, tail = passthroughArgs([]string{"R58M"}, 1)
	if len(head) != 1 || tail != nil {
		t.Fatalf("unexpected split %q / %q", head, tail)
	}
}

func TestRawCommandArgs(t *testing.T) {
	t.Cleanup(func() { configPath = "" })

	rest, help, err := rawCommandArgs([]string{"--config", "a.toml", "--config=b.toml", "-m", "800"})
	if err != nil || help {
		t.Fatalf("unexpected result help=%v err=%v", help, err)
	}
	if configPath != "b.toml" || !reflect.DeepEqual(rest, []string{"-m", "800"}) {
		t.Fatalf("unexpected config %q rest %q", configPath, rest)
	}

	rest, _, _ = rawCommandArgs([]string{"--", "--help"})
	if !reflect.DeepEqual(rest, []string{"--help"}) {
		t.Fatalf("words after -- must be kept, got %q", rest)
	}
	rest, _, _ = rawCommandArgs([]string{"-m", "800", "--help"})
	if !reflect.DeepEqual(rest, []string{"-m", "800", "--help"}) {
		t.Fatalf("parsing must stop at the first scrcpy flag, got %q", rest)
	}
	if _, help, _ := rawCommandArgs([]string{"-h"}); !help {
		t.Fatal("expected help")
	}
	if _, _, err := rawCommandArgs([]string{"--config"}); err == nil {
		t.Fatal("expected missing value error")
	}
}
