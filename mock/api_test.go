package mock_test

import (
	"context"
	"errors"
	"testing"

	chatbot "github.com/Oleksandr-Uvarov-AI-D/hands-chatbot"
	"github.com/Oleksandr-Uvarov-AI-D/hands-chatbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_Start(t *testing.T) {
	t.Parallel()
	t.Run("delegates to StartFn", func(t *testing.T) {
		t.Parallel()
		a := mock.API{
			StartFn: func(ctx context.Context, message *string) (chatbot.StartResult, error) {
				assert.Nil(t, message)
				return chatbot.StartResult{ThreadID: "t_1"}, nil
			},
		}
		got, err := a.Start(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "t_1", got.ThreadID)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("api error")
		a := mock.API{
			StartFn: func(ctx context.Context, message *string) (chatbot.StartResult, error) {
				return chatbot.StartResult{}, wantErr
			},
		}
		_, err := a.Start(context.Background(), nil)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when StartFn not set", func(t *testing.T) {
		t.Parallel()
		a := mock.API{}
		assert.Panics(t, func() {
			_, _ = a.Start(context.Background(), nil)
		})
	})
}

func TestAPI_Send(t *testing.T) {
	t.Parallel()
	a := mock.API{
		SendFn: func(ctx context.Context, threadID, message string) (string, error) {
			assert.Equal(t, "t_1", threadID)
			assert.Equal(t, "hello", message)
			return "hi!", nil
		},
	}
	reply, err := a.Send(context.Background(), "t_1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi!", reply)
}

func TestAPI_End(t *testing.T) {
	t.Parallel()
	var gotThreadID *string
	a := mock.API{
		EndFn: func(ctx context.Context, threadID *string) error {
			gotThreadID = threadID
			return nil
		},
	}
	id := "t_1"
	require.NoError(t, a.End(context.Background(), &id))
	require.NotNil(t, gotThreadID)
	assert.Equal(t, "t_1", *gotThreadID)
}
