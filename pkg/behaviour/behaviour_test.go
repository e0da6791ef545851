package behaviour_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/behaviour"
	"github.com/aretw0/arbor/pkg/domain"
)

func TestLifecycle(t *testing.T) {
	var log []string
	statuses := []domain.Status{domain.StatusRunning, domain.StatusRunning, domain.StatusSuccess}
	i := 0

	b := behaviour.New("worker",
		behaviour.WithInitialise(func() { log = append(log, "initialise") }),
		behaviour.WithUpdate(func() domain.Status {
			log = append(log, "update")
			s := statuses[i]
			i++
			return s
		}),
		behaviour.WithTerminate(func(next domain.Status) {
			log = append(log, "terminate:"+string(next))
		}),
	)

	assert.Equal(t, domain.StatusInvalid, b.Status(), "fresh node starts INVALID")

	t.Run("entering a cycle fires initialise once", func(t *testing.T) {
		assert.Equal(t, domain.StatusRunning, b.Tick(nil))
		assert.Equal(t, []string{"initialise", "update"}, log)
	})

	t.Run("re-tick while RUNNING skips initialise", func(t *testing.T) {
		b.Tick(nil)
		assert.Equal(t, []string{"initialise", "update", "update"}, log)
	})

	t.Run("leaving RUNNING fires terminate", func(t *testing.T) {
		assert.Equal(t, domain.StatusSuccess, b.Tick(nil))
		assert.Equal(t, "terminate:SUCCESS", log[len(log)-1])
	})
}

func TestStopIdempotent(t *testing.T) {
	terminations := 0
	b := behaviour.New("worker",
		behaviour.WithUpdate(func() domain.Status { return domain.StatusRunning }),
		behaviour.WithTerminate(func(domain.Status) { terminations++ }),
	)
	b.Tick(nil)

	b.Stop(domain.StatusInvalid)
	b.Stop(domain.StatusInvalid)

	assert.Equal(t, 1, terminations, "stopping an already-stopped node is a no-op")
	assert.Equal(t, domain.StatusInvalid, b.Status())
}

func TestFromFunc(t *testing.T) {
	leaf := behaviour.FromFunc("probe", func(b *behaviour.Behaviour) domain.Status {
		b.SetMessage("probed")
		return domain.StatusSuccess
	})

	assert.Equal(t, domain.StatusSuccess, leaf.Tick(nil))
	assert.Equal(t, "probed", leaf.Message())
	assert.Nil(t, leaf.Children())
}

func TestConstantLeaves(t *testing.T) {
	assert.Equal(t, domain.StatusSuccess, behaviour.NewSuccess("s").Tick(nil))
	assert.Equal(t, domain.StatusFailure, behaviour.NewFailure("f").Tick(nil))
	assert.Equal(t, domain.StatusRunning, behaviour.NewRunning("r").Tick(nil))
	assert.Equal(t, domain.StatusRunning, behaviour.NewDummy("d").Tick(nil))
}

func TestPeriodic(t *testing.T) {
	p := behaviour.NewPeriodic("cycle", 2)

	var got []domain.Status
	for i := 0; i < 8; i++ {
		got = append(got, p.Tick(nil))
	}
	want := []domain.Status{
		domain.StatusRunning, domain.StatusRunning,
		domain.StatusSuccess, domain.StatusSuccess, domain.StatusSuccess,
		domain.StatusFailure, domain.StatusFailure, domain.StatusFailure,
	}
	assert.Equal(t, want, got)
}

func TestSuccessEveryN(t *testing.T) {
	s := behaviour.NewSuccessEveryN("spike", 3)

	var got []domain.Status
	for i := 0; i < 6; i++ {
		got = append(got, s.Tick(nil))
	}
	want := []domain.Status{
		domain.StatusFailure, domain.StatusFailure, domain.StatusSuccess,
		domain.StatusFailure, domain.StatusFailure, domain.StatusSuccess,
	}
	assert.Equal(t, want, got)
}

func TestCount(t *testing.T) {
	t.Run("walks thresholds then fails forever", func(t *testing.T) {
		c := behaviour.NewCount("count", 1, 3, 4, true)

		var got []domain.Status
		for i := 0; i < 6; i++ {
			got = append(got, c.Tick(nil))
		}
		want := []domain.Status{
			domain.StatusFailure,
			domain.StatusRunning, domain.StatusRunning,
			domain.StatusSuccess,
			domain.StatusFailure, domain.StatusFailure,
		}
		assert.Equal(t, want, got)
		assert.Equal(t, 6, c.Updates)
	})

	t.Run("invalidation resets the counter", func(t *testing.T) {
		c := behaviour.NewCount("count", 1, 2, 3, true)
		require.Equal(t, domain.StatusFailure, c.Tick(nil))
		require.Equal(t, domain.StatusRunning, c.Tick(nil))

		c.Stop(domain.StatusInvalid)
		assert.Equal(t, 1, c.Resets)
		assert.Equal(t, domain.StatusFailure, c.Tick(nil), "cycle starts over")
	})

	t.Run("without reset the counter persists", func(t *testing.T) {
		c := behaviour.NewCount("count", 1, 2, 3, false)
		require.Equal(t, domain.StatusFailure, c.Tick(nil))

		c.Stop(domain.StatusInvalid)
		assert.Equal(t, 0, c.Resets)
		assert.Equal(t, domain.StatusRunning, c.Tick(nil), "counter kept going")
	})
}

func TestWalkPreOrder(t *testing.T) {
	leaf := behaviour.NewSuccess("leaf")

	var names []string
	behaviour.Walk(leaf, func(n behaviour.Node) { names = append(names, n.Name()) })
	assert.Equal(t, []string{"leaf"}, names)
}
