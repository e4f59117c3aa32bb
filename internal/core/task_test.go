package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWork_DeterministicForSeed(t *testing.T) {
	for _, seed := range []TaskSeed{1, 42, 0xDEADBEEF, TaskSeed(^uint64(0))} {
		r1, err := Work(seed, 100, 5000)
		require.NoError(t, err)
		r2, err := Work(seed, 100, 5000)
		require.NoError(t, err)
		assert.Equal(t, r1, r2)
		assert.GreaterOrEqual(t, r1.Precision, uint64(100))
		assert.Less(t, r1.Precision, uint64(5000))
	}
}

func TestWork_SeedFortyTwo(t *testing.T) {
	r, err := Work(42, 10, 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(670), r.Precision)

	want, err := EstimatePi(670)
	require.NoError(t, err)
	assert.Equal(t, want, r.Estimate)
}

func TestWork_ZeroPrecisionFailsTask(t *testing.T) {
	_, err := Work(0, 0, 10)
	require.ErrorIs(t, err, ErrZeroPrecision)
}

func TestSpawnCount_Range(t *testing.T) {
	assert.Equal(t, 4, SpawnCount(42))
	for seed := TaskSeed(1); seed < 5000; seed++ {
		n := SpawnCount(seed)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, MaxFanOut)
	}
}

func TestChildSeed_DistinctAcrossIndexAndWorker(t *testing.T) {
	const parent = TaskSeed(42)
	seen := make(map[TaskSeed][2]int)
	for worker := 0; worker < 1000; worker++ {
		for index := 0; index < MaxFanOut; index++ {
			s := ChildSeed(parent, index, worker)
			prev, dup := seen[s]
			require.Falsef(t, dup, "child (%d,%d) collides with (%d,%d)", index, worker, prev[0], prev[1])
			seen[s] = [2]int{index, worker}
		}
	}
}

func TestChildSeed_MatchesMixOfPackedProduct(t *testing.T) {
	assert.Equal(t, TaskSeed(Mix(42*12)), ChildSeed(42, 0, 1))
	assert.Equal(t, TaskSeed(Mix(7*43)), ChildSeed(7, 3, 2))
}

func TestTaskSeed_StringAndParse(t *testing.T) {
	assert.Equal(t, "000000000000002a", TaskSeed(42).String())

	s, err := ParseTaskSeed("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, TaskSeed(^uint64(0)), s)

	_, err = ParseTaskSeed("-1")
	assert.Error(t, err)
}
