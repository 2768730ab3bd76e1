package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/omnipost/pkg/logger"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "flaky", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary")
		}
		return nil
	}, fastConfig())

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDoStopsOnPermanent(t *testing.T) {
	attempts := 0
	boom := errors.New("bad request")
	err := Do(context.Background(), logger.NewNop(), "permanent", func(context.Context) error {
		attempts++
		return Permanent(boom)
	}, fastConfig())

	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, attempts)
}

func TestDoGivesUpAfterBudget(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), logger.NewNop(), "down", func(context.Context) error {
		attempts++
		return errors.New("still down")
	}, fastConfig())

	require.Error(t, err)
	require.Equal(t, 3, attempts)
}
