package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/newrelic/lxc-free/src/raw"
	"github.com/newrelic/lxc-free/src/utils"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(cgroupPath string) raw.Metrics {
	args := m.Called(cgroupPath)
	return args.Get(0).(raw.Metrics)
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name string
		stat raw.MemoryStat
		want UsageTriple
	}{
		{
			name: "absent counter",
			stat: raw.MemoryStat{Limit: utils.ToPointer(uint64(1024))},
			want: UsageTriple{},
		},
		{
			name: "unbounded",
			stat: raw.MemoryStat{Current: utils.ToPointer(uint64(104857600))},
			want: UsageTriple{Total: 104857600, Used: 104857600, Free: 0},
		},
		{
			name: "limited",
			stat: raw.MemoryStat{
				Current: utils.ToPointer(uint64(104857600)),
				Limit:   utils.ToPointer(uint64(536870912)),
			},
			want: UsageTriple{Total: 536870912, Used: 104857600, Free: 432013312},
		},
		{
			name: "limited to zero",
			stat: raw.MemoryStat{
				Current: utils.ToPointer(uint64(4096)),
				Limit:   utils.ToPointer(uint64(0)),
			},
			want: UsageTriple{Total: 4096, Used: 4096, Free: 0},
		},
		{
			name: "usage above limit",
			stat: raw.MemoryStat{
				Current: utils.ToPointer(uint64(2048)),
				Limit:   utils.ToPointer(uint64(1024)),
			},
			want: UsageTriple{Total: 1024, Used: 2048, Free: 0},
		},
		{
			name: "zero usage",
			stat: raw.MemoryStat{
				Current: utils.ToPointer(uint64(0)),
				Limit:   utils.ToPointer(uint64(1024)),
			},
			want: UsageTriple{Total: 1024, Used: 0, Free: 1024},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Usage(tt.stat))
		})
	}
}

func TestUsage_UsedPlusFreeIsTotal(t *testing.T) {
	for _, current := range []uint64{0, 1, 4095, 104857600, 536870911, 536870912} {
		got := Usage(raw.MemoryStat{
			Current: utils.ToPointer(current),
			Limit:   utils.ToPointer(uint64(536870912)),
		})
		assert.Equal(t, got.Total, got.Used+got.Free, "current=%d", current)
	}
}

func TestMetricsFetcher_Process(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("Fetch", "/sys/fs/cgroup/lxc.payload.c1").Return(raw.Metrics{
		CgroupPath: "/sys/fs/cgroup/lxc.payload.c1",
		Memory: raw.MemoryStat{
			Current: utils.ToPointer(uint64(104857600)),
			Limit:   utils.ToPointer(uint64(536870912)),
		},
		Swap: raw.MemoryStat{Limit: utils.ToPointer(uint64(536870912))},
	})

	report := NewProcessor(fetcher).Process("/sys/fs/cgroup/lxc.payload.c1")

	fetcher.AssertExpectations(t)
	assert.Equal(t, Report{
		Memory: UsageTriple{Total: 536870912, Used: 104857600, Free: 432013312},
		Swap:   UsageTriple{},
	}, report)
}
