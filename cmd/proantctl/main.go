package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"proant/internal/ant"
	"proant/internal/config"
	"proant/internal/export"
	"proant/internal/logging"
	"proant/internal/morphology"
	internalproant "proant/internal/proant"
	"proant/internal/scene"
	proantapi "proant/pkg/proant"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "generate":
		return runGenerate(ctx, args[1:])
	case "inspect":
		return runInspect(ctx, args[1:])
	case "replay":
		return runReplay(ctx, args[1:])
	case "specs":
		return runSpecs(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "import":
		return runImport(ctx, args[1:])
	case "delete":
		return runDelete(ctx, args[1:])
	case "morphologies":
		return runMorphologies(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// session is the loaded config plus the logger and client built from it.
type session struct {
	cfg    *config.Config
	logger *log.Logger
	client *proantapi.Client
}

func openSession(fs *flag.FlagSet, flags *config.Flags, args []string) (*session, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := flags.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(nil, logging.Options{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Formatter: logging.ParseFormatter(cfg.LogFormat),
		Prefix:    "proantctl",
	})
	if cfg.ConfigFile != "" {
		logger.Debug("loaded config file", "path", cfg.ConfigFile)
	}
	if cfg.EnvFile != "" {
		logger.Debug("loaded env file", "path", cfg.EnvFile)
	}

	client, err := proantapi.New(proantapi.Options{
		StoreKind: cfg.Store,
		DBPath:    cfg.DBPath,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, client: client}, nil
}

func (s *session) Close() {
	if err := s.client.Close(); err != nil {
		s.logger.Warn("close store", "err", err)
	}
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	profile := fs.String("profile", "", "morphology profile or leg count; overrides --legs")
	save := fs.Bool("save", false, "persist the generated spec")
	out := fs.String("out", "", "write output to this file instead of stdout")
	flags := config.RegisterFlags(fs)
	s, err := openSession(fs, flags, args)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.client.Generate(ctx, proantapi.GenerateRequest{
		Profile:   *profile,
		Legs:      s.cfg.Legs,
		Suffix:    s.cfg.Suffix,
		MinHeight: s.cfg.MinHeight,
		MaxHeight: s.cfg.MaxHeight,
		Save:      *save,
	})
	if err != nil {
		return err
	}
	if *out == "" {
		return export.Write(os.Stdout, s.cfg.Format, res.Record)
	}
	var b strings.Builder
	if err := export.Write(&b, s.cfg.Format, res.Record); err != nil {
		return err
	}
	if err := os.WriteFile(*out, []byte(b.String()), 0o644); err != nil {
		return err
	}
	s.logger.Info("wrote spec", "path", *out, "size", humanize.Bytes(uint64(b.Len())))
	return nil
}

func runInspect(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	in := fs.String("in", "-", "scene text file, or - for stdin")
	root := fs.String("root", "", "root body name to resolve (default: the pro-ant trunk)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*in)
	if err != nil {
		return err
	}
	cfg, err := scene.Parse(string(data))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rootName := *root
	if rootName == "" {
		rootName = ant.Root
	}
	stats := scene.Counts(cfg)
	fmt.Printf("size=%s bodies=%d joints=%d actuators=%d\n",
		humanize.Bytes(uint64(len(data))), stats.Bodies, stats.Joints, stats.Actuators)
	if idx, err := cfg.BodyIndex(rootName); err == nil {
		fmt.Printf("root=%q index=%d\n", rootName, idx)
	} else if *root != "" {
		return err
	}
	names := make([]string, 0, len(cfg.Bodies))
	for _, body := range cfg.Bodies {
		names = append(names, fmt.Sprintf("%q", body.Name))
	}
	fmt.Printf("collides=[%s]\n", strings.Join(names, ", "))
	return nil
}

func runReplay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	trajectory := fs.String("trajectory", "", "trajectory JSON file")
	id := fs.String("id", "", "stored spec id; generates a fresh spec when empty")
	profile := fs.String("profile", "", "morphology profile or leg count; overrides --legs")
	flags := config.RegisterFlags(fs)
	s, err := openSession(fs, flags, args)
	if err != nil {
		return err
	}
	defer s.Close()
	if *trajectory == "" {
		return errors.New("replay requires --trajectory")
	}

	summary, err := s.client.Replay(ctx, proantapi.ReplayRequest{
		SpecID: *id,
		Generate: proantapi.GenerateRequest{
			Profile:   *profile,
			Legs:      s.cfg.Legs,
			Suffix:    s.cfg.Suffix,
			MinHeight: s.cfg.MinHeight,
			MaxHeight: s.cfg.MaxHeight,
		},
		TrajectoryPath: *trajectory,
	})
	if err != nil {
		return err
	}

	if s.cfg.Format != export.FormatText {
		return export.Encode(os.Stdout, s.cfg.Format, summary.Trace)
	}
	r := summary.Result
	fmt.Printf("root=%q done=%t done_step=%d steps=%d final=%s\n",
		summary.Root, r.Done, r.Step, r.Steps, scene.FormatFloat(r.Final))
	return nil
}

func runSpecs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("specs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max specs to list")
	flags := config.RegisterFlags(fs)
	s, err := openSession(fs, flags, args)
	if err != nil {
		return err
	}
	defer s.Close()
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	items, err := s.client.Specs(ctx, *limit)
	if err != nil {
		return err
	}
	if s.cfg.Format != export.FormatText {
		return export.Encode(os.Stdout, s.cfg.Format, items)
	}
	if len(items) == 0 {
		fmt.Println("no specs found")
		return nil
	}
	for _, item := range items {
		fmt.Printf("id=%s component=%s legs=%d suffix=%q created=%s\n",
			item.ID, item.Component, item.Legs, item.Suffix, createdAgo(item.CreatedAtUTC))
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := fs.String("id", "", "stored spec id")
	flags := config.RegisterFlags(fs)
	s, err := openSession(fs, flags, args)
	if err != nil {
		return err
	}
	defer s.Close()
	if *id == "" {
		return errors.New("show requires --id")
	}

	rec, err := s.client.Spec(ctx, *id)
	if err != nil {
		return err
	}
	return export.Write(os.Stdout, s.cfg.Format, rec)
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	in := fs.String("in", "", "JSON or YAML spec record file")
	flags := config.RegisterFlags(fs)
	s, err := openSession(fs, flags, args)
	if err != nil {
		return err
	}
	defer s.Close()
	if *in == "" {
		return errors.New("import requires --in")
	}

	format := s.cfg.Format
	if format == export.FormatText {
		format = export.FormatFromPath(*in)
	}
	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	rec, err := export.Read(f, format)
	if err != nil {
		return err
	}
	summary, err := s.client.Import(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Printf("imported id=%s legs=%d\n", summary.ID, summary.Legs)
	return nil
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "stored spec id")
	flags := config.RegisterFlags(fs)
	s, err := openSession(fs, flags, args)
	if err != nil {
		return err
	}
	defer s.Close()
	if *id == "" {
		return errors.New("delete requires --id")
	}
	if err := s.client.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted id=%s\n", *id)
	return nil
}

func runMorphologies(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("morphologies", flag.ContinueOnError)
	component := fs.String("component", internalproant.Component, "component name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profiles := morphology.AvailableMorphologyProfiles(*component)
	if len(profiles) == 0 {
		return fmt.Errorf("no morphology profiles for component %s", *component)
	}
	for _, profile := range profiles {
		m, err := morphology.ConstructMorphology(*component, profile)
		if err != nil {
			return err
		}
		fmt.Printf("profile=%s morphology=%s sensors=%d actuators=%d\n",
			profile, m.Name(), len(m.Sensors()), len(m.Actuators()))
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func createdAgo(createdAtUTC string) string {
	t, err := time.Parse(time.RFC3339Nano, createdAtUTC)
	if err != nil {
		return createdAtUTC
	}
	return humanize.Time(t)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: proantctl <generate|inspect|replay|specs|show|import|delete|morphologies> [flags]", msg)
}
