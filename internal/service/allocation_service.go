package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-rooms-api/internal/dto"
	"github.com/noah-isme/sma-rooms-api/internal/models"
	appErrors "github.com/noah-isme/sma-rooms-api/pkg/errors"
)

type datasetProvider interface {
	Current() (*Dataset, error)
}

type priorityProvider interface {
	Get(ctx context.Context) ([]string, error)
}

// RunPersister writes a completed run to durable storage.
type RunPersister interface {
	SaveRun(ctx context.Context, run *models.AllocationRun, assignments []models.Assignment, unresolved []models.Unresolved) error
}

type runObserver interface {
	ObserveRun(run *models.AllocationRun, duration time.Duration)
}

// AllocationConfig governs engine behaviour for every run.
type AllocationConfig struct {
	OptimizerIterations int
	PerDayFallback      bool
	RoomCapacity        int
	PersistRuns         bool
	RunTTL              time.Duration
}

// AllocationService orchestrates a full allocation run: classify, order,
// allocate, optimize, exchange. Completed runs are cached for reporting.
type AllocationService struct {
	datasets   datasetProvider
	priorities priorityProvider
	persister  RunPersister
	observer   runObserver
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        AllocationConfig
	store      *runStore
}

// NewAllocationService wires the engine dependencies.
func NewAllocationService(
	datasets datasetProvider,
	priorities priorityProvider,
	persister RunPersister,
	observer runObserver,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AllocationConfig,
) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OptimizerIterations < 1 {
		cfg.OptimizerIterations = 3
	}
	if cfg.RoomCapacity < 1 {
		cfg.RoomCapacity = 40
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = time.Hour
	}
	return &AllocationService{
		datasets:   datasets,
		priorities: priorities,
		persister:  persister,
		observer:   observer,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		store:      newRunStore(cfg.RunTTL),
	}
}

// Run executes the allocation pipeline over the current dataset and caches
// the completed run for reporting and export.
func (s *AllocationService) Run(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid allocation payload")
	}
	dataset, err := s.datasets.Current()
	if err != nil {
		return nil, err
	}

	priority, err := s.resolvePriority(ctx, req.PriorityGroups)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	rooms := BuildInventory(s.cfg.RoomCapacity)
	sessions := dataset.CloneSessions()
	groups := cloneGroups(dataset.Groups)

	classifier := NewClassifier(s.logger)
	inPerson, direct := classifier.Classify(sessions, groups)

	st := NewRunState(rooms, groups, inPerson)
	st.Assignments = append(st.Assignments, direct...)

	checker := NewConflictChecker()
	selector := NewRoomSelector(checker, priority)
	order := OrderGroups(inPerson, groups, priority)

	NewAllocator(selector, s.cfg.PerDayFallback, s.logger).Allocate(st, order)
	NewOptimizer(selector, s.cfg.OptimizerIterations, s.logger).Optimize(st)
	NewFloorExchanger(checker, priority, s.logger).Adjust(st)

	summary := s.summarize(st, sessions, priority)
	run := &completedRun{
		Summary:     summary,
		State:       st,
		CompletedAt: time.Now().UTC(),
	}
	s.store.Save(run)

	if s.persister != nil && (req.Persist || s.cfg.PersistRuns) {
		if err := s.persister.SaveRun(ctx, &summary, st.Assignments, st.Unresolved); err != nil {
			return nil, err
		}
	}
	if s.observer != nil {
		s.observer.ObserveRun(&summary, time.Since(started))
	}

	s.logger.Info("allocation run completed",
		zap.String("run_id", summary.ID),
		zap.Int("assigned", summary.Assigned),
		zap.Int("unresolved", summary.UnresolvedCount),
		zap.Int("split_groups", summary.SplitGroups),
		zap.Int("optimizer_fixes", summary.OptimizerFixes),
		zap.Int("floor_exchanges", summary.FloorExchanges),
		zap.Duration("took", time.Since(started)),
	)

	return &dto.AllocateResponse{
		RunID:          summary.ID,
		Summary:        summary,
		Unresolved:     st.Unresolved,
		Splits:         splitList(st),
		OptimizerFixes: st.OptimizerFixes,
		FloorExchanges: st.FloorExchanges,
	}, nil
}

// Report returns the full report of a cached run. An empty id resolves to the
// most recent run.
func (s *AllocationService) Report(runID string) (*dto.RunReportResponse, error) {
	run, err := s.findRun(runID)
	if err != nil {
		return nil, err
	}
	return &dto.RunReportResponse{
		Summary:     run.Summary,
		Assignments: run.State.Assignments,
		Unresolved:  run.State.Unresolved,
		Splits:      splitList(run.State),
	}, nil
}

// Occupancy renders per-room calendars for a cached run.
func (s *AllocationService) Occupancy(runID string) ([]dto.RoomOccupancyView, error) {
	run, err := s.findRun(runID)
	if err != nil {
		return nil, err
	}
	views := make([]dto.RoomOccupancyView, 0, len(run.State.Rooms))
	for _, room := range run.State.Rooms {
		views = append(views, dto.RoomOccupancyView{
			RoomID:             room.ID,
			Building:           room.Building,
			Floor:              room.Floor,
			Capacity:           room.Capacity,
			Accessible:         room.Accessible,
			FixedOccupantGroup: room.FixedOccupantGroup,
			Occupied:           room.Occupied,
		})
	}
	return views, nil
}

// Run state accessor for the export services.
func (s *AllocationService) findRun(runID string) (*completedRun, error) {
	var run *completedRun
	var ok bool
	if runID == "" {
		run, ok = s.store.Latest()
	} else {
		run, ok = s.store.Get(runID)
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "allocation run not found or expired")
	}
	return run, nil
}

func (s *AllocationService) resolvePriority(ctx context.Context, override []string) (map[string]struct{}, error) {
	ids := override
	if len(ids) == 0 && s.priorities != nil {
		stored, err := s.priorities.Get(ctx)
		if err != nil {
			return nil, err
		}
		ids = stored
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *AllocationService) summarize(st *RunState, sessions []*models.ClassSession, priority map[string]struct{}) models.AllocationRun {
	summary := models.AllocationRun{
		ID:              uuid.NewString(),
		TotalSessions:   len(sessions),
		UnresolvedCount: len(st.Unresolved),
		SplitGroups:     len(st.Splits),
		OptimizerFixes:  st.OptimizerFixes,
		FloorExchanges:  st.FloorExchanges,
		CreatedAt:       time.Now().UTC(),
	}
	for id := range priority {
		summary.PriorityGroups = append(summary.PriorityGroups, id)
	}
	sort.Strings(summary.PriorityGroups)
	for _, session := range sessions {
		switch session.Modality {
		case models.ModalityVirtual:
			summary.Virtual++
		case models.ModalityLab:
			summary.Lab++
		default:
			summary.InPerson++
			if session.AssignedRoom != "" {
				summary.Assigned++
			}
		}
	}
	return summary
}

func cloneGroups(groups map[string]*models.Group) map[string]*models.Group {
	cloned := make(map[string]*models.Group, len(groups))
	for id, group := range groups {
		copied := *group
		cloned[id] = &copied
	}
	return cloned
}

func splitList(st *RunState) []models.GroupSplit {
	splits := make([]models.GroupSplit, 0, len(st.Splits))
	for _, split := range st.Splits {
		splits = append(splits, split)
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].GroupID < splits[j].GroupID })
	return splits
}

// --- Run cache ---

type completedRun struct {
	Summary     models.AllocationRun
	State       *RunState
	CompletedAt time.Time
}

type runStore struct {
	ttl    time.Duration
	mu     sync.RWMutex
	items  map[string]*completedRun
	latest string
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: make(map[string]*completedRun),
	}
}

func (s *runStore) Save(run *completedRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[run.Summary.ID] = run
	s.latest = run.Summary.ID
}

func (s *runStore) Get(id string) (*completedRun, bool) {
	s.mu.RLock()
	run, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(run.CompletedAt) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	return run, true
}

func (s *runStore) Latest() (*completedRun, bool) {
	s.mu.RLock()
	id := s.latest
	s.mu.RUnlock()
	if id == "" {
		return nil, false
	}
	return s.Get(id)
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	if s.latest == id {
		s.latest = ""
	}
	s.mu.Unlock()
}
