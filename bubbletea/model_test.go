package bubbletea_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	bt "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/bubbletea"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/coordinator"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(chatbot.DefaultTheme())

	assert.True(t, m.Landing())
	assert.Zero(t, m.InFlight())
	// Nothing to lay out before the first WindowSizeMsg.
	assert.Contains(t, m.View(), "Initializing")
}

func TestModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("window size initializes viewport", func(t *testing.T) {
		t.Parallel()

		m := bt.New(chatbot.DefaultTheme())
		m.Controller = &controllerStub{}
		updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		model, ok := updated.(bt.Model)
		require.True(t, ok)

		view := model.View()
		assert.NotContains(t, view, "Initializing")
		assert.Contains(t, view, "hands chatbot")
	})

	t.Run("window size resize updates viewport dimensions", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})

		assert.Equal(t, 80, m.Viewport.Width)
		assert.Equal(t, 20, m.Viewport.Height) // 24 - 1 - 1 - 2 = 20

		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

		assert.Equal(t, 120, m.Viewport.Width)
		// Height = 40 - inputHeight(1) - statusHeight(1) - borderHeight(2) = 36
		assert.Equal(t, 36, m.Viewport.Height)
	})

	t.Run("window size resize re-renders transcript content", func(t *testing.T) {
		t.Parallel()

		// Start with a narrow viewport so word-wrapping is visible.
		m := initModelWithSize(t, &controllerStub{}, 30, 20)

		longLine := "word1 word2 word3 word4 word5 word6 word7 word8"
		m = render(t, m, chatbot.AppendBotMessage{Text: longLine})

		// Widen the viewport. Content should be re-rendered at new width.
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 20})

		// At 120 columns the entire line fits on one row. If content was
		// not re-rendered, the old 30-column wrapping would split the text
		// and "word8" wouldn't share a line with "word1".
		found := false
		for _, line := range strings.Split(m.Viewport.View(), "\n") {
			if strings.Contains(line, "word1") && strings.Contains(line, "word8") {
				found = true
				break
			}
		}
		assert.True(t, found, "expected word1 and word8 on the same line after resize, got:\n%s", m.Viewport.View())
	})

	t.Run("ctrl+c quits", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		require.NotNil(t, cmd)
		msg := cmd()
		_, isQuit := msg.(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("enter on the landing view starts a conversation", func(t *testing.T) {
		t.Parallel()

		var started bool
		ctrl := &controllerStub{newChatFn: func(context.Context) error {
			started = true
			return nil
		}}
		m := initModel(t, ctrl)
		require.True(t, m.Landing())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		require.NotNil(t, cmd)
		msg := cmd()
		_, ok := msg.(bt.NewChatDoneMsg)
		assert.True(t, ok)
		assert.True(t, started)
	})

	t.Run("enter with empty input in conversation does nothing", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.EnterConversationView{})
		require.False(t, m.Landing())

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("whitespace-only input is not submitted", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.EnterConversationView{})
		m.Input.SetValue("   ")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})

	t.Run("ctrl+n starts a new chat from the conversation view", func(t *testing.T) {
		t.Parallel()

		var started bool
		ctrl := &controllerStub{newChatFn: func(context.Context) error {
			started = true
			return nil
		}}
		m := initModel(t, ctrl)
		m = render(t, m, chatbot.EnterConversationView{})

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})

		require.NotNil(t, cmd)
		msg := cmd()
		_, ok := msg.(bt.NewChatDoneMsg)
		assert.True(t, ok)
		assert.True(t, started)
	})

	t.Run("enter submits trimmed input and clears it", func(t *testing.T) {
		t.Parallel()

		var got string
		ctrl := &controllerStub{submitFn: func(_ context.Context, text string) error {
			got = text
			return nil
		}}
		m := initModel(t, ctrl)
		m.Input.SetValue("  where is my order?  ")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		model, ok := updated.(bt.Model)
		require.True(t, ok)
		require.NotNil(t, cmd)

		assert.Empty(t, model.Input.Value())
		assert.Equal(t, 1, model.InFlight())

		msg := cmd()
		_, isDone := msg.(bt.SubmitDoneMsg)
		assert.True(t, isDone)
		assert.Equal(t, "where is my order?", got)
	})

	t.Run("input stays active while a reply is pending", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m.Input.SetValue("first question")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		require.Equal(t, 1, m.InFlight())

		m = typeString(t, m, "second question")
		assert.Equal(t, "second question", m.Input.Value())
	})

	t.Run("submit done clears the waiting status", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m.Input.SetValue("hi")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		m = render(t, m, chatbot.AppendUserMessage{Text: "hi"})
		require.Contains(t, m.View(), "Waiting for a reply")

		m = updateModel(t, m, bt.SubmitDoneMsg{})

		assert.Zero(t, m.InFlight())
		assert.Contains(t, m.View(), "Enter to send")
	})

	t.Run("stray submit done keeps the count at zero", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = updateModel(t, m, bt.SubmitDoneMsg{})
		assert.Zero(t, m.InFlight())
	})

	t.Run("viewport accepts scroll keys", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, &controllerStub{}, 80, 9)
		for i := range 30 {
			m = render(t, m, chatbot.AppendBotMessage{Text: fmt.Sprintf("line-%d", i)})
		}

		// Auto-scroll keeps the newest message visible.
		viewBefore := m.Viewport.View()
		assert.Contains(t, viewBefore, "line-29")

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyPgUp})

		viewAfter := m.Viewport.View()
		assert.NotContains(t, viewAfter, "line-29")
	})
}

func TestModel_Transcript(t *testing.T) {
	t.Parallel()

	t.Run("enter conversation view replaces the landing view", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		require.Contains(t, m.View(), "hands chatbot")

		m = render(t, m, chatbot.EnterConversationView{})

		assert.False(t, m.Landing())
		assert.NotContains(t, m.View(), "Enter starts a conversation")
	})

	t.Run("a new conversation starts with a clean transcript", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.EnterConversationView{})
		m = render(t, m, chatbot.AppendBotMessage{Text: "old reply"})
		require.Contains(t, m.View(), "old reply")

		m = render(t, m, chatbot.EnterConversationView{})
		assert.NotContains(t, m.View(), "old reply")
	})

	t.Run("user messages echo with a prompt marker", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.AppendUserMessage{Text: "where is my order?"})

		assert.False(t, m.Landing())
		assert.Contains(t, m.View(), "> where is my order?")
	})

	t.Run("assistant replies render as markdown", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.AppendBotMessage{Text: "Your refund was **approved** today."})

		view := m.View()
		assert.Contains(t, view, "approved")
		assert.NotContains(t, view, "**")
	})

	t.Run("typing indicator shows while a reply is pending", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.ShowTypingIndicator{Handle: "h-1"})
		assert.Contains(t, m.View(), "assistant is typing")

		m = render(t, m, chatbot.RemoveTypingIndicator{Handle: "h-1"})
		assert.NotContains(t, m.View(), "assistant is typing")
	})

	t.Run("indicator removal is correlated by handle", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.ShowTypingIndicator{Handle: "h-1"})
		m = render(t, m, chatbot.ShowTypingIndicator{Handle: "h-2"})
		require.Equal(t, 2, strings.Count(m.View(), "assistant is typing"))

		// Unknown handles are ignored.
		m = render(t, m, chatbot.RemoveTypingIndicator{Handle: "h-9"})
		assert.Equal(t, 2, strings.Count(m.View(), "assistant is typing"))

		m = render(t, m, chatbot.RemoveTypingIndicator{Handle: "h-1"})
		assert.Equal(t, 1, strings.Count(m.View(), "assistant is typing"))

		m = render(t, m, chatbot.RemoveTypingIndicator{Handle: "h-2"})
		assert.Zero(t, strings.Count(m.View(), "assistant is typing"))
	})

	t.Run("timeout notice appears in the transcript", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.AppendUserMessage{Text: "hello"})
		m = render(t, m, chatbot.ShowTimeoutNotice{})

		view := m.View()
		assert.Contains(t, view, "timed out")
		// The transcript stays visible under the notice.
		assert.Contains(t, view, "hello")
	})

	t.Run("error notice keeps the conversation usable", func(t *testing.T) {
		t.Parallel()

		m := initModel(t, &controllerStub{})
		m = render(t, m, chatbot.AppendUserMessage{Text: "hello"})
		m = render(t, m, chatbot.ShowErrorNotice{Err: assert.AnError})

		assert.Contains(t, m.View(), "Error")

		m = typeString(t, m, "retry")
		assert.Equal(t, "retry", m.Input.Value())
	})

	t.Run("long errors wrap to the viewport width", func(t *testing.T) {
		t.Parallel()

		m := initModelWithSize(t, &controllerStub{}, 40, 20)
		longErr := fmt.Errorf("this is a very long error message that should wrap within the viewport width limit")
		m = render(t, m, chatbot.ShowErrorNotice{Err: longErr})

		transcript := m.Viewport.View()
		// The full error text must be visible (wrapped, not truncated).
		assert.Contains(t, transcript, "width limit")
		for _, line := range strings.Split(transcript, "\n") {
			assert.LessOrEqual(t, lipgloss.Width(line), 40, "line exceeds viewport width: %q", line)
		}
	})
}

func TestModel_Teatest(t *testing.T) {
	t.Parallel()

	t.Run("full exchange round trip", func(t *testing.T) {
		t.Parallel()

		api := &mock.API{
			StartFn: func(_ context.Context, message *string) (chatbot.StartResult, error) {
				if assert.NotNil(t, message) {
					assert.Equal(t, "where is my package?", *message)
				}
				return chatbot.StartResult{
					ThreadID: "thread-1",
					Reply:    "You can track it from your account page.",
				}, nil
			},
			SendFn: func(_ context.Context, threadID, message string) (string, error) {
				assert.Equal(t, "thread-1", threadID)
				return "Happy to help!", nil
			},
			EndFn: func(_ context.Context, threadID *string) error { return nil },
		}

		m := bt.New(chatbot.DefaultTheme())
		c := coordinator.New(api, coordinator.WithRenderHandler(m.RenderHandler()))
		defer c.Close()
		m.Controller = c

		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Type("where is my package?")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("where is my package?")) &&
				bytes.Contains(out, []byte("You can track it from your account page."))
		}, teatest.WithDuration(5*time.Second))

		tm.Type("thanks")
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("Happy to help!")) &&
				bytes.Contains(out, []byte("Enter to send"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))

		id, ok := c.ThreadID()
		require.True(t, ok)
		assert.Equal(t, "thread-1", id)
	})

	t.Run("empty enter on the landing view opens a conversation", func(t *testing.T) {
		t.Parallel()

		api := &mock.API{
			StartFn: func(_ context.Context, message *string) (chatbot.StartResult, error) {
				assert.Nil(t, message)
				return chatbot.StartResult{ThreadID: "thread-2"}, nil
			},
			EndFn: func(_ context.Context, threadID *string) error { return nil },
		}

		m := bt.New(chatbot.DefaultTheme())
		c := coordinator.New(api, coordinator.WithRenderHandler(m.RenderHandler()))
		defer c.Close()
		m.Controller = c

		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte(coordinator.DefaultGreeting))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})

	t.Run("idle timeout surfaces a notice", func(t *testing.T) {
		t.Parallel()

		api := &mock.API{
			StartFn: func(_ context.Context, message *string) (chatbot.StartResult, error) {
				return chatbot.StartResult{ThreadID: "thread-3"}, nil
			},
			EndFn: func(_ context.Context, threadID *string) error { return nil },
		}

		m := bt.New(chatbot.DefaultTheme())
		c := coordinator.New(api,
			coordinator.WithRenderHandler(m.RenderHandler()),
			coordinator.WithIdleTimeout(100*time.Millisecond),
		)
		defer c.Close()
		m.Controller = c

		tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlN})

		teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
			return bytes.Contains(out, []byte("timed out"))
		}, teatest.WithDuration(5*time.Second))

		tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
		tm.WaitFinished(t, teatest.WithFinalTimeout(5*time.Second))
	})
}
