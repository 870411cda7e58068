package helper

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ProcScanner produces scan helper rows by reading a procfs tree directly.
type ProcScanner struct {
	Root  string // defaults to /proc
	Match string // executable base name, defaults to scrcpy
}

// Scan lists matching processes as `pid\tuid\tstartticks\texe\tcmdhash\tcmdline`
// lines ordered by pid. Processes that vanish mid-scan are skipped.
func (p ProcScanner) Scan() (string, error) {
	root := p.Root
	if root == "" {
		root = "/proc"
	}
	match := p.Match
	if match == "" {
		match = "scrcpy"
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", root, err)
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if pid, err := strconv.Atoi(e.Name()); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)

	var b strings.Builder
	for _, pid := range pids {
		row, ok := p.row(root, pid, match)
		if !ok {
			continue
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func (p ProcScanner) row(root string, pid int, match string) (string, bool) {
	dir := filepath.Join(root, strconv.Itoa(pid))
	raw, err := os.ReadFile(filepath.Join(dir, "cmdline"))
	if err != nil || len(raw) == 0 {
		return "", false
	}
	argv := splitCmdline(raw)
	if len(argv) == 0 {
		return "", false
	}
	exe, _ := os.Readlink(filepath.Join(dir, "exe"))
	if filepath.Base(exe) != match && filepath.Base(argv[0]) != match {
		return "", false
	}
	if exe == "" {
		exe = argv[0]
	}
	uid, ok := readUID(filepath.Join(dir, "status"))
	if !ok {
		return "", false
	}
	ticks, ok := readStartTicks(filepath.Join(dir, "stat"))
	if !ok {
		return "", false
	}
	hash := strconv.FormatUint(xxhash.Sum64(raw), 16)
	return strings.Join([]string{
		strconv.Itoa(pid),
		strconv.Itoa(uid),
		ticks,
		exe,
		hash,
		strings.Join(argv, " "),
	}, "\t"), true
}

func splitCmdline(raw []byte) []string {
	parts := bytes.Split(raw, []byte{0})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		out = append(out, string(part))
	}
	return out
}

// readUID returns the real uid from a /proc/<pid>/status file.
func readUID(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		rest, ok := strings.CutPrefix(sc.Text(), "Uid:")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return 0, false
		}
		uid, err := strconv.Atoi(fields[0])
		return uid, err == nil
	}
	return 0, false
}

// readStartTicks returns field 22 (starttime) of /proc/<pid>/stat. The comm
// field may contain spaces and parens, so parsing starts after the last ')'.
func readStartTicks(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	s := string(b)
	idx := strings.LastIndexByte(s, ')')
	if idx < 0 {
		return "", false
	}
	// Fields after comm start at field 3 (state); starttime is field 22.
	fields := strings.Fields(s[idx+1:])
	const startTimeOffset = 22 - 3
	if len(fields) <= startTimeOffset {
		return "", false
	}
	return fields[startTimeOffset], true
}
