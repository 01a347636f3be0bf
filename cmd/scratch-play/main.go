// Command scratch-play runs the scratch engine against the system audio
// device (or a headless clock) and drives it with a scripted scratch
// gesture, which makes it useful for latency checks and listening tests
// without a UI.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	scratch "github.com/tphakala/go-scratch-engine"
	"github.com/tphakala/go-scratch-engine/device"
)

const (
	// Control-loop cadence, matching a 60 Hz UI
	inputInterval = time.Second / 60

	// Scripted gesture shape
	gestureAmplitude = 3.0             // raw angular units per step at the peak
	gesturePeriod    = 2 * time.Second // one back-and-forth per period
	coastDecay       = 0.95            // per-step rate decay after release
)

func main() {
	var (
		assetDir = flag.String("assets", "assets", "Asset directory resolved against sample and track paths")
		samples  = flag.String("samples", "samples/scratch1", "Comma-separated platter sample base paths")
		tracks   = flag.String("tracks", "music/track1", "Comma-separated music track base paths")
		duration = flag.Duration("duration", 10*time.Second, "How long to play")
		fader    = flag.Float64("fader", 0.8, "Platter fader volume")
		headless = flag.Bool("headless", false, "Use a wall-clock stream instead of the audio device")
		scripted = flag.Bool("gesture", true, "Drive a scripted scratch gesture")
	)
	flag.Parse()

	openStream := device.Open
	if *headless {
		openStream = device.OpenHeadless
	}

	engine, err := scratch.New(scratch.Config{
		Assets:         os.DirFS(*assetDir),
		PlatterSamples: strings.Split(*samples, ","),
		MusicTracks:    strings.Split(*tracks, ","),
		OpenStream: func(render device.RenderFunc) (device.Stream, error) {
			return openStream(device.Config{}, render)
		},
		Logger: log.New(os.Stderr, "scratch: ", log.LstdFlags),
	})
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	sampleList := strings.Split(*samples, ",")
	if err := engine.LoadIntro(sampleList[0]); err != nil {
		log.Fatalf("Failed to load intro: %v", err)
	}
	if err := engine.PlayTrack(); err != nil {
		log.Printf("No music track: %v", err)
	}
	if err := engine.StartStream(); err != nil {
		log.Fatalf("Failed to start stream: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if *scripted {
		g.Go(func() error {
			return runGesture(ctx, engine, *fader)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		return engine.StopStream()
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Fatalf("Playback failed: %v", err)
	}
	log.Println("Done")
}

// runGesture waits for the intro to finish, raises the fader, then loops a
// sinusoidal drag followed by a release-and-coast phase.
func runGesture(ctx context.Context, engine *scratch.Engine, fader float64) error {
	ticker := time.NewTicker(inputInterval)
	defer ticker.Stop()

	// Let the intro play through before grabbing the platter.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(gesturePeriod):
	}
	engine.SetFaderVolume(fader)

	start := time.Now()
	coasting := false
	rate := 0.0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		elapsed := time.Since(start)
		phase := math.Mod(elapsed.Seconds(), 2*gesturePeriod.Seconds())

		switch {
		case phase < gesturePeriod.Seconds():
			// Drag: sinusoidal back-and-forth motion under the finger.
			coasting = false
			delta := gestureAmplitude * math.Sin(2*math.Pi*phase/gesturePeriod.Seconds())
			engine.ScratchInput(true, delta)

		case !coasting:
			// Release: hand the platter to the physics loop at the
			// engine's last rate.
			coasting = true
			rate = engine.TargetRate()
			engine.ReleaseTouch()
			engine.ScratchInput(false, rate)

		default:
			rate *= coastDecay
			if math.Abs(rate) < 1e-3 {
				rate = 0
			}
			engine.ScratchInput(false, rate)
		}
	}
}
