package numbering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "suratdesa/pkg/domain"
	dErrors "suratdesa/pkg/domain-errors"
)

func TestValidateFormat(t *testing.T) {
	t.Run("accepts format with NOMOR", func(t *testing.T) {
		assert.NoError(t, ValidateFormat("NOMOR/KODE/BULAN/TAHUN"))
	})

	t.Run("token match is case-insensitive", func(t *testing.T) {
		assert.NoError(t, ValidateFormat("nomor/KODE"))
	})

	t.Run("rejects format without NOMOR", func(t *testing.T) {
		err := ValidateFormat("KODE/BULAN/TAHUN")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty format", func(t *testing.T) {
		err := ValidateFormat("")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestRenderNumber(t *testing.T) {
	october := time.Date(2025, time.October, 7, 12, 0, 0, 0, time.UTC)

	t.Run("full token set", func(t *testing.T) {
		got := RenderNumber("NOMOR/KODE/BULAN/TAHUN", "SKD", 1, october)
		assert.Equal(t, "001/SKD/10/2025", got)
	})

	t.Run("reordered tokens", func(t *testing.T) {
		got := RenderNumber("KODE-NOMOR/TAHUN", "SKD", 1, october)
		assert.Equal(t, "SKD-001/2025", got)
	})

	t.Run("repeated tokens are all substituted", func(t *testing.T) {
		got := RenderNumber("TAHUN/NOMOR/TAHUN", "SKD", 42, october)
		assert.Equal(t, "2025/042/2025", got)
	})

	t.Run("lowercase tokens", func(t *testing.T) {
		got := RenderNumber("nomor/kode", "SKU", 7, october)
		assert.Equal(t, "007/SKU", got)
	})

	t.Run("sequence beyond padding width", func(t *testing.T) {
		got := RenderNumber("NOMOR", "SKD", 1234, october)
		assert.Equal(t, "1234", got)
	})
}

func TestResetPolicy(t *testing.T) {
	at := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("yearly period key is the year", func(t *testing.T) {
		assert.Equal(t, "2025", ResetYearly.PeriodKey(at))
	})

	t.Run("never period key is constant", func(t *testing.T) {
		assert.Equal(t, "all", ResetNever.PeriodKey(at))
	})

	t.Run("parse rejects unknown policy", func(t *testing.T) {
		_, err := ParseResetPolicy("monthly")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestGeneratorAssign(t *testing.T) {
	ctx := context.Background()
	ltID := id.LetterTypeID(uuid.New())
	at := time.Date(2025, time.October, 7, 12, 0, 0, 0, time.UTC)

	t.Run("sequences within one period", func(t *testing.T) {
		gen := NewGenerator(NewInMemoryCounterStore(), ResetYearly)

		first, err := gen.Assign(ctx, ltID, "SKD", "NOMOR/KODE/BULAN/TAHUN", at)
		require.NoError(t, err)
		assert.Equal(t, "001/SKD/10/2025", first)

		second, err := gen.Assign(ctx, ltID, "SKD", "NOMOR/KODE/BULAN/TAHUN", at)
		require.NoError(t, err)
		assert.Equal(t, "002/SKD/10/2025", second)
	})

	t.Run("yearly policy restarts the sequence in a new year", func(t *testing.T) {
		gen := NewGenerator(NewInMemoryCounterStore(), ResetYearly)

		_, err := gen.Assign(ctx, ltID, "SKD", "NOMOR/TAHUN", at)
		require.NoError(t, err)

		nextYear := at.AddDate(1, 0, 0)
		got, err := gen.Assign(ctx, ltID, "SKD", "NOMOR/TAHUN", nextYear)
		require.NoError(t, err)
		assert.Equal(t, "001/2026", got)
	})

	t.Run("never policy keeps one sequence across years", func(t *testing.T) {
		gen := NewGenerator(NewInMemoryCounterStore(), ResetNever)

		_, err := gen.Assign(ctx, ltID, "SKD", "NOMOR", at)
		require.NoError(t, err)

		got, err := gen.Assign(ctx, ltID, "SKD", "NOMOR", at.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, "002", got)
	})

	t.Run("invalid format is rejected without consuming a sequence value", func(t *testing.T) {
		counters := NewInMemoryCounterStore()
		gen := NewGenerator(counters, ResetYearly)

		_, err := gen.Assign(ctx, ltID, "SKD", "KODE only", at)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Equal(t, 0, counters.Peek(ltID, ResetYearly.PeriodKey(at)))
	})

	t.Run("counter failure surfaces as unavailable", func(t *testing.T) {
		gen := NewGenerator(failingCounterStore{}, ResetYearly)
		_, err := gen.Assign(ctx, ltID, "SKD", "NOMOR", at)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

// TestCounterConcurrency asserts that N concurrent approvals of the same
// (letterType, period) receive N distinct sequence values.
func TestCounterConcurrency(t *testing.T) {
	const goroutines = 64

	store := NewInMemoryCounterStore()
	ltID := id.LetterTypeID(uuid.New())

	var mu sync.Mutex
	seen := make(map[int]bool, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.Next(context.Background(), ltID, "2025")
			require.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines, "every approval must receive a distinct sequence value")
	for v := 1; v <= goroutines; v++ {
		assert.True(t, seen[v], "sequence value %d must not be skipped", v)
	}
}

type failingCounterStore struct{}

func (failingCounterStore) Next(context.Context, id.LetterTypeID, string) (int, error) {
	return 0, errors.New("counter store down")
}
