package proant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"proant/internal/ant"
	"proant/internal/componentid"
	"proant/internal/episode"
	"proant/internal/logging"
	"proant/internal/model"
	"proant/internal/morphology"
	internalproant "proant/internal/proant"
	"proant/internal/scene"
	"proant/internal/storage"
)

const defaultDBPath = "proant.db"

var ErrSpecNotFound = errors.New("spec not found")

type (
	Specs        = internalproant.Specs
	SpecOptions  = internalproant.Options
	SpecRecord   = model.SpecRecord
	SpecSummary  = model.SpecSummary
	Trajectory   = episode.Trajectory
	ReplayResult = episode.Result
)

// GetSpecs describes a pro ant with numLegs legs.
func GetSpecs(numLegs int) (Specs, error) {
	return internalproant.GetSpecs(numLegs)
}

// DefaultSpecs describes the ten legged pro ant.
func DefaultSpecs() (Specs, error) {
	return internalproant.DefaultSpecs()
}

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *log.Logger
}

type Client struct {
	store  storage.Store
	logger *log.Logger

	initOnce sync.Once
	initErr  error
}

type GenerateRequest struct {
	// Profile, when set, takes precedence over Legs. It accepts profile
	// names such as "hexapod" or a plain leg count.
	Profile string
	Legs    int
	Suffix  string
	// MinHeight defaults to 0.2 when zero.
	MinHeight float64
	MaxHeight float64
	Save      bool
}

type GenerateResult struct {
	Specs   Specs
	Record  SpecRecord
	Summary SpecSummary
	Saved   bool
}

type ReplayRequest struct {
	// SpecID selects a stored spec; otherwise Generate is used for the
	// termination settings and scene.
	SpecID         string
	Generate       GenerateRequest
	TrajectoryPath string
	Trajectory     *Trajectory
}

type ReplaySummary struct {
	Result ReplayResult
	Root   string
	Trace  episode.Trace
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "kind", storeKind)
	return &Client{store: store, logger: logger}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) ensureStore(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

// Generate builds a spec and, when req.Save is set, persists its record.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	legs := req.Legs
	if strings.TrimSpace(req.Profile) != "" {
		var err error
		legs, err = morphology.LegsForProfile(req.Profile)
		if err != nil {
			return GenerateResult{}, err
		}
	}
	opts := specOptions(req)
	specs, err := internalproant.GetSpecsWithOptions(legs, opts)
	if err != nil {
		return GenerateResult{}, err
	}

	rec := SpecRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              uuid.NewString(),
		Component:       internalproant.Component,
		Legs:            legs,
		Suffix:          opts.Suffix,
		Root:            specs.Root,
		MessageStr:      specs.MessageStr,
		Collides:        append([]string(nil), specs.Collides...),
		Observers:       observerNames(specs.Observers),
		MinHeight:       opts.MinHeight,
		MaxHeight:       opts.MaxHeight,
		CreatedAtUTC:    model.FormatTimestamp(time.Now()),
	}
	result := GenerateResult{Specs: specs, Record: rec, Summary: rec.Summary()}

	c.logger.Debug("generated spec",
		"legs", legs,
		"bodies", len(specs.Scene.Bodies),
		"size", humanize.Bytes(uint64(len(specs.MessageStr))),
	)
	if !req.Save {
		return result, nil
	}
	if err := c.save(ctx, rec); err != nil {
		return GenerateResult{}, err
	}
	result.Saved = true
	return result, nil
}

// Import validates and stores an externally produced record. Missing IDs,
// versions and timestamps are filled in.
func (c *Client) Import(ctx context.Context, rec SpecRecord) (SpecSummary, error) {
	rec.Component = componentid.Normalize(rec.Component)
	if rec.Component == "" {
		rec.Component = internalproant.Component
	}
	if err := morphology.EnsureCompatibility(rec.Component, fmt.Sprint(rec.Legs)); err != nil {
		return SpecSummary{}, err
	}
	switch rec.VersionedRecord {
	case model.VersionedRecord{}:
		rec.VersionedRecord = storage.CurrentVersion()
	case storage.CurrentVersion():
	default:
		return SpecSummary{}, fmt.Errorf("import spec %s: schema %d codec %d: %w",
			rec.ID, rec.SchemaVersion, rec.CodecVersion, storage.ErrVersionMismatch)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAtUTC == "" {
		rec.CreatedAtUTC = model.FormatTimestamp(time.Now())
	} else {
		createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAtUTC)
		if err != nil {
			return SpecSummary{}, fmt.Errorf("import spec %s: created_at_utc: %w", rec.ID, err)
		}
		rec.CreatedAtUTC = model.FormatTimestamp(createdAt)
	}
	if _, err := SpecsFromRecord(rec); err != nil {
		return SpecSummary{}, err
	}
	if err := c.save(ctx, rec); err != nil {
		return SpecSummary{}, err
	}
	return rec.Summary(), nil
}

func (c *Client) save(ctx context.Context, rec SpecRecord) error {
	if err := c.ensureStore(ctx); err != nil {
		return err
	}
	if err := c.store.SaveSpec(ctx, rec); err != nil {
		return fmt.Errorf("save spec %s: %w", rec.ID, err)
	}
	c.logger.Info("saved spec", "id", rec.ID, "legs", rec.Legs)
	return nil
}

func (c *Client) Spec(ctx context.Context, id string) (SpecRecord, error) {
	if err := c.ensureStore(ctx); err != nil {
		return SpecRecord{}, err
	}
	rec, ok, err := c.store.GetSpec(ctx, id)
	if err != nil {
		return SpecRecord{}, err
	}
	if !ok {
		return SpecRecord{}, fmt.Errorf("%w: %s", ErrSpecNotFound, id)
	}
	return rec, nil
}

// Specs lists stored specs newest first; limit <= 0 lists all.
func (c *Client) Specs(ctx context.Context, limit int) ([]SpecSummary, error) {
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	return c.store.ListSpecs(ctx, limit)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.Spec(ctx, id); err != nil {
		return err
	}
	if err := c.store.DeleteSpec(ctx, id); err != nil {
		return fmt.Errorf("delete spec %s: %w", id, err)
	}
	c.logger.Info("deleted spec", "id", id)
	return nil
}

// Replay runs a spec's termination function over a recorded trajectory.
func (c *Client) Replay(ctx context.Context, req ReplayRequest) (ReplaySummary, error) {
	traj, err := replayTrajectory(req)
	if err != nil {
		return ReplaySummary{}, err
	}

	var specs Specs
	if req.SpecID != "" {
		rec, err := c.Spec(ctx, req.SpecID)
		if err != nil {
			return ReplaySummary{}, err
		}
		specs, err = SpecsFromRecord(rec)
		if err != nil {
			return ReplaySummary{}, err
		}
	} else {
		generated, err := c.Generate(ctx, GenerateRequest{
			Profile:   req.Generate.Profile,
			Legs:      req.Generate.Legs,
			Suffix:    req.Generate.Suffix,
			MinHeight: req.Generate.MinHeight,
			MaxHeight: req.Generate.MaxHeight,
		})
		if err != nil {
			return ReplaySummary{}, err
		}
		specs = generated.Specs
	}

	result, trace, err := episode.Replay(ctx, specs.TermFn, &specs.Scene, specs.Root, traj)
	if err != nil {
		return ReplaySummary{}, err
	}
	root := specs.Root
	if traj.Root != "" {
		root = traj.Root
	}
	c.logger.Debug("replayed trajectory", "steps", result.Steps, "done", result.Done, "done_step", result.Step)
	return ReplaySummary{Result: result, Root: root, Trace: trace}, nil
}

func replayTrajectory(req ReplayRequest) (Trajectory, error) {
	switch {
	case req.Trajectory != nil:
		return *req.Trajectory, nil
	case req.TrajectoryPath != "":
		return episode.LoadTrajectory(req.TrajectoryPath)
	default:
		return Trajectory{}, errors.New("trajectory or trajectory path is required")
	}
}

// SpecsFromRecord rebuilds the runnable specs of a stored record. The scene
// is parsed back from MessageStr and must hold the trunk plus two bodies per
// leg; every collides entry must name one of its bodies. The termination
// chain is rebuilt from the stored heights.
func SpecsFromRecord(rec SpecRecord) (Specs, error) {
	cfg, err := scene.Parse(rec.MessageStr)
	if err != nil {
		return Specs{}, fmt.Errorf("spec %s: %w", rec.ID, err)
	}
	if err := cfg.Validate(); err != nil {
		return Specs{}, fmt.Errorf("spec %s: %w", rec.ID, err)
	}
	if _, err := cfg.BodyIndex(rec.Root); err != nil {
		return Specs{}, fmt.Errorf("spec %s root: %w", rec.ID, err)
	}
	if want := 1 + 2*rec.Legs; len(cfg.Bodies) != want {
		return Specs{}, fmt.Errorf("spec %s: %d legs need %d bodies, scene has %d: %w",
			rec.ID, rec.Legs, want, len(cfg.Bodies), internalproant.ErrInvalidLegCount)
	}
	if _, err := cfg.NamesToIndices("body", rec.Collides...); err != nil {
		return Specs{}, fmt.Errorf("spec %s collides: %w", rec.ID, err)
	}
	observers := make([]ant.Observer, 0, len(rec.Observers))
	for _, name := range rec.Observers {
		observers = append(observers, ant.Observer(name))
	}
	return Specs{
		MessageStr: rec.MessageStr,
		Collides:   append([]string(nil), rec.Collides...),
		Root:       rec.Root,
		TermFn:     internalproant.Terminations(rec.MinHeight, rec.MaxHeight).Func(),
		Observers:  observers,
		Scene:      cfg,
	}, nil
}

func specOptions(req GenerateRequest) SpecOptions {
	opts := internalproant.DefaultOptions()
	opts.Suffix = req.Suffix
	if req.MinHeight != 0 {
		opts.MinHeight = req.MinHeight
	}
	opts.MaxHeight = req.MaxHeight
	return opts
}

func observerNames(observers []ant.Observer) []string {
	out := make([]string, 0, len(observers))
	for _, o := range observers {
		out = append(out, string(o))
	}
	return out
}
