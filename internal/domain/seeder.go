package domain

import (
	"math/rand/v2"
	"sync"

	m "faultline.dev/pkg/faultline/internal/model"
)

// SeedSpace is the exclusive upper bound of per-trial seeds.
const SeedSpace = 1 << 30

// trialStream fixes the PCG stream so a trial seed alone selects the mutation.
const trialStream = 0x9e3779b97f4a7c15

// TrialPlan is one scheduled (spec, seed) execution.
type TrialPlan struct {
	Index int
	Spec  m.InjectionSpec
	Seed  uint32
}

// Seeder is the master generator owned by one harness instance.
type Seeder interface {
	MasterSeed() uint64
	NextSeed() uint32
	Plan(specs []m.InjectionSpec, trialsPerSpec int) []TrialPlan
}

type seeder struct {
	mu     sync.Mutex
	master uint64
	rng    *rand.Rand
}

// NewSeeder creates a Seeder whose whole draw sequence is fixed by masterSeed.
func NewSeeder(masterSeed uint64) Seeder {
	return &seeder{
		master: masterSeed,
		rng:    rand.New(rand.NewPCG(masterSeed, masterSeed^trialStream)),
	}
}

// RandomMasterSeed draws a master seed from the runtime source, for runs started without --seed.
func RandomMasterSeed() uint64 {
	return uint64(rand.Uint32N(SeedSpace))
}

func (s *seeder) MasterSeed() uint64 {
	return s.master
}

// NextSeed draws one trial seed from [0, SeedSpace).
func (s *seeder) NextSeed() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng.Uint32N(SeedSpace)
}

// Plan pre-draws every trial seed in spec-major order.
func (s *seeder) Plan(specs []m.InjectionSpec, trialsPerSpec int) []TrialPlan {
	if trialsPerSpec <= 0 {
		return []TrialPlan{}
	}

	plans := make([]TrialPlan, 0, len(specs)*trialsPerSpec)

	for _, spec := range specs {
		for range trialsPerSpec {
			plans = append(plans, TrialPlan{
				Index: len(plans),
				Spec:  spec,
				Seed:  s.NextSeed(),
			})
		}
	}

	return plans
}

// ShardPlan keeps the plan entries whose index falls into shardIndex of shardCount.
func ShardPlan(plans []TrialPlan, shardIndex, shardCount int) []TrialPlan {
	if shardCount <= 1 {
		return plans
	}

	sharded := []TrialPlan{}

	for _, plan := range plans {
		if plan.Index%shardCount == shardIndex {
			sharded = append(sharded, plan)
		}
	}

	return sharded
}

// NewTrialSource builds the random source a single trial draws from.
// Executor and reproducer both go through here, so equal seeds give equal mutations.
func NewTrialSource(seed uint32) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), trialStream))
}
