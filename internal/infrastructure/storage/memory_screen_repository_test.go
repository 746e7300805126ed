package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-classifier/internal/domain/entity"
)

func TestMemoryScreenRepository_GetMissing(t *testing.T) {
	repo := NewMemoryScreenRepository()
	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, entity.ErrScreenNotFound)
}

func TestMemoryScreenRepository_SaveAndUpdate(t *testing.T) {
	repo := NewMemoryScreenRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, entity.NewScreen("s1")))

	updated, err := repo.Update(ctx, "s1", func(s *entity.Screen) {
		s.ReplaceLabels([]string{"cat"})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"cat"}, updated.Labels)

	// Изменение копии не влияет на хранилище
	updated.Labels[0] = "dog"
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{"cat"}, got.Labels)
}

func TestMemoryScreenRepository_UpdateMissing(t *testing.T) {
	repo := NewMemoryScreenRepository()
	_, err := repo.Update(context.Background(), "nope", func(*entity.Screen) {})
	require.ErrorIs(t, err, entity.ErrScreenNotFound)
}

func TestMemoryScreenRepository_ConcurrentGetAndUpdate(t *testing.T) {
	repo := NewMemoryScreenRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, entity.NewScreen("s1")))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			labels := []string{"cat", "dog"}
			if i%2 == 1 {
				labels = []string{"car"}
			}
			_, err := repo.Update(ctx, "s1", func(s *entity.Screen) {
				s.ReplaceLabels(labels)
			})
			if err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 500; i++ {
		got, err := repo.Get(ctx, "s1")
		require.NoError(t, err)
		// Метки всегда целиком от одной классификации
		switch len(got.Labels) {
		case 0:
		case 1:
			require.Equal(t, []string{"car"}, got.Labels)
		default:
			require.Equal(t, []string{"cat", "dog"}, got.Labels)
		}
	}
	<-done
}
