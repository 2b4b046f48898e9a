package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"shadowtalk/internal/session"
	"shadowtalk/internal/trust"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd, out, errOut
}

func TestPrintMessage_AttachmentFilenameCannotEscapeSaveDir(t *testing.T) {
	root := t.TempDir()
	saveDir := filepath.Join(root, "attachments")
	if err := os.MkdirAll(saveDir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cmd, _, _ := newTestCmd()
	m := session.ReceivedMessage{
		Sender:     "mallory",
		Text:       "hi",
		Attachment: []byte("payload"),
		Filename:   "../victim.txt",
		Decrypted:  true,
		Trust:      trust.Result{Status: trust.Unchanged},
	}
	printMessage(cmd, m, saveDir)

	if _, err := os.Stat(filepath.Join(root, "victim.txt")); !os.IsNotExist(err) {
		t.Fatal("attachment written outside the save directory")
	}
	data, err := os.ReadFile(filepath.Join(saveDir, "victim.txt"))
	if err != nil {
		t.Fatalf("sanitized attachment missing: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("attachment content = %q", data)
	}
}

func TestPrintMessage_UnusableFilenameRefused(t *testing.T) {
	saveDir := t.TempDir()

	cmd, _, errOut := newTestCmd()
	m := session.ReceivedMessage{
		Sender:     "mallory",
		Attachment: []byte("payload"),
		Filename:   "..",
		Decrypted:  true,
		Trust:      trust.Result{Status: trust.Unchanged},
	}
	printMessage(cmd, m, saveDir)

	entries, err := os.ReadDir(saveDir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("save dir not empty: %v", entries)
	}
	if errOut.Len() == 0 {
		t.Fatal("no refusal message emitted")
	}
}
