package askbridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponte/internal/domain"
)

type fakePrompter struct {
	calls    int
	question string
	options  []string
}

func (f *fakePrompter) PromptChoice(question string, options []string) error {
	f.calls++
	f.question = question
	f.options = options
	return nil
}

func writePending(t *testing.T, b *Bridge, requestID, chatID string) string {
	t.Helper()
	path, err := b.WriteRequest(domain.AskRequest{
		RequestID: requestID,
		ChatID:    chatID,
		Question:  "Deploy to production?",
		Options:   []string{"yes", "no"},
	})
	require.NoError(t, err)
	return path
}

func TestPollPendingPromptsAndMarksSent(t *testing.T) {
	b := New(t.TempDir())
	prompter := &fakePrompter{}
	path := writePending(t, b, "req-1", "chat-1")

	requestID, found, err := b.PollPending(context.Background(), "chat-1", prompter)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, 1, prompter.calls)
	assert.Equal(t, "Deploy to production?", prompter.question)
	assert.Equal(t, []string{"yes", "no"}, prompter.options)

	req, ok := readRequest(path)
	require.True(t, ok)
	assert.Equal(t, domain.AskStatusSent, req.Status)
}

func TestPollPendingDoesNotRedeliver(t *testing.T) {
	b := New(t.TempDir())
	prompter := &fakePrompter{}
	writePending(t, b, "req-1", "chat-1")

	_, found, err := b.PollPending(context.Background(), "chat-1", prompter)
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = b.PollPending(context.Background(), "chat-1", prompter)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, prompter.calls)
}

func TestPollPendingIgnoresOtherChats(t *testing.T) {
	b := New(t.TempDir())
	prompter := &fakePrompter{}
	writePending(t, b, "req-1", "chat-other")

	_, found, err := b.PollPending(context.Background(), "chat-1", prompter)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, prompter.calls)
}

func TestPollPendingMissingDirectory(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "never-created"))

	_, found, err := b.PollPending(context.Background(), "chat-1", &fakePrompter{})

	require.NoError(t, err)
	assert.False(t, found)
}

func TestPollPendingCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(t.TempDir()).PollPending(ctx, "chat-1", &fakePrompter{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsume(t *testing.T) {
	b := New(t.TempDir())
	path := writePending(t, b, "req-1", "chat-1")

	require.NoError(t, b.Consume("req-1"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Consuming an already-deleted request is fine
	assert.NoError(t, b.Consume("req-1"))
}

func TestScanOnceSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	b := New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, filePrefix+"bad"+fileSuffix), []byte("{nope"), 0644))
	writePending(t, b, "req-1", "chat-1")

	requestID, found, err := b.scanOnce("chat-1", &fakePrompter{})

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "req-1", requestID)
}
