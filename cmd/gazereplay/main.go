// gazereplay runs a recorded gaze session through the interaction core
// without a headset. It loads a scene configuration, rebuilds the targets
// and hotspot panels it describes, feeds every recorded frame to the gaze
// tracker and prints the resulting enter, exit, select and panel events.
//
// With --csv, or when the configuration enables its logger section, the
// recorded eye readings are also written in the eye-data log format, which
// regenerates the analysis file for an archived session.
//
// Every replay reports a digest of its event stream. Passing a previous
// digest with --expect fails the run when the events differ, which turns a
// recording into a regression check.
//
//	gazereplay --config scene.yaml --recording session.gzrc --csv eyes.txt
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/phanxgames/gazekit"
	"github.com/phanxgames/gazekit/config"
	"github.com/phanxgames/gazekit/datalog"
	"github.com/phanxgames/gazekit/record"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var configPath, recordingPath, csvPath, expect string
	var debug bool

	flagSet := pflag.NewFlagSet("gazereplay", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "scene configuration file (YAML)")
	flagSet.StringVarP(&recordingPath, "recording", "r", "", "gaze recording to replay")
	flagSet.StringVar(&csvPath, "csv", "", "write the eye-data log to this file (overrides logger.file)")
	flagSet.StringVar(&expect, "expect", "", "fail unless the event digest matches")
	flagSet.BoolVar(&debug, "debug", false, "enable tracker debug output")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gazereplay --config FILE --recording FILE [--csv FILE]\n\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if configPath == "" || recordingPath == "" {
		flagSet.Usage()
		return errors.New("--config and --recording are required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	scene, err := newReplayScene(cfg, logger)
	if err != nil {
		return err
	}
	scene.tracker.SetDebugMode(debug)

	if csvPath == "" && cfg.Logger.Enabled {
		csvPath = cfg.Logger.File
	}
	var eyeLog *datalog.Logger
	if csvPath != "" {
		eyeLog, err = datalog.Open(csvPath, datalog.Options{Rate: cfg.Logger.Rate, Logger: logger})
		if err != nil {
			return err
		}
		defer func() { _ = eyeLog.Stop() }()
	}

	f, err := os.Open(recordingPath)
	if err != nil {
		return fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	frames := 0
	digest := record.NewEventDigest()
	scene.tracker.OnEvent(func(e gazekit.GazeEvent) { digest.Add(frames, e) })
	header, err := record.Replay(f, func(fr record.Frame, s gazekit.GazeSample) error {
		frames++
		scene.tracker.Update(s, fr.DT)
		for _, p := range scene.panels {
			p.Update(fr.DT)
		}
		if eyeLog != nil {
			eyeLog.Update(fr.Time, fr.Left, fr.Right)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("replay finished",
		"session", header.SessionID,
		"recorded", header.Created,
		"frames", frames,
		"events", scene.events,
		"selects", scene.selects,
		"digest", digest.Sum())
	if expect != "" && expect != digest.Sum() {
		return fmt.Errorf("event digest %s does not match expected %s", digest.Sum(), expect)
	}
	return nil
}
