package bench

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGenerator(seed int64) ChangesetGenerator {
	return ChangesetGenerator{
		Seed:             seed,
		KeyMean:          10,
		KeyStdDev:        2,
		ValueMean:        20,
		ValueStdDev:      10,
		InitialSize:      100,
		FinalSize:        1000,
		Versions:         10,
		ChangePerVersion: 50,
		DeleteFraction:   0.1,
	}
}

func Test_ChangesetGenerator(t *testing.T) {
	gen := testGenerator(2)
	itr, err := gen.Iterator()
	require.NoError(t, err)

	live := map[string]struct{}{}
	var cnt int
	version := itr.Version
	for ; itr.Valid(); err = itr.Next() {
		require.NoError(t, err)
		require.NotNil(t, itr.Op)
		require.GreaterOrEqual(t, itr.Version, version)
		version = itr.Version
		cnt++

		if itr.Op.Delete {
			_, exists := live[itr.Op.Key]
			require.True(t, exists, "delete of unknown key %q at version %d", itr.Op.Key, version)
			delete(live, itr.Op.Key)
		} else {
			live[itr.Op.Key] = struct{}{}
		}
	}
	require.NotZero(t, cnt)
	require.Equal(t, gen.Versions, version)
	require.Equal(t, gen.FinalSize, len(live))
}

func Test_ChangesetGenerator_Determinism(t *testing.T) {
	for _, seed := range []int64{2, 100, 777, -43} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			a, err := testGenerator(seed).Iterator()
			require.NoError(t, err)
			b, err := testGenerator(seed).Iterator()
			require.NoError(t, err)

			for a.Valid() {
				require.True(t, b.Valid())
				require.Equal(t, a.Op, b.Op)
				require.Equal(t, a.Version, b.Version)
				require.NoError(t, a.Next())
				require.NoError(t, b.Next())
			}
			require.False(t, b.Valid())
		})
	}
}

func Test_WriteReadChangesets(t *testing.T) {
	gen := testGenerator(7)
	dir := t.TempDir()
	require.NoError(t, WriteChangesets(gen, dir))

	info, err := readChangesetInfo(dir)
	require.NoError(t, err)
	require.Equal(t, gen.Versions, info.Versions)
	require.Equal(t, gen, info.Generator)

	// the files must replay the exact op stream the generator produced
	itr, err := gen.Iterator()
	require.NoError(t, err)
	for version := int64(1); version <= gen.Versions; version++ {
		ops, err := readVersionOps(dir, version)
		require.NoError(t, err)
		for i := range ops {
			require.True(t, itr.Valid())
			require.Equal(t, *itr.Op, ops[i], "op mismatch at version %d entry %d", version, i)
			require.NoError(t, itr.Next())
		}
	}
	require.False(t, itr.Valid())
}
