package main

/*------------------------------------------------------------------
 *
 * Purpose:	Offline harness for the lvmfx effect bundle: decode a WAV
 *		file, run it through Bundle block by block, and encode
 *		the result to another WAV file (or stream it live to the
 *		default output device with -live).
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"

	"github.com/avfxteam/lvmfx/src"
)

const blockFrames = 1024

var (
	inPath      = pflag.StringP("in", "i", "", "input WAV file (required)")
	outPath     = pflag.StringP("out", "o", "", "output WAV file (default: timestamped next to the input)")
	live        = pflag.Bool("live", false, "stream the processed signal to the default output device instead of writing a file")
	showVersion = pflag.Bool("version", false, "print the lvmfx build version and exit")
	verbose     = pflag.BoolP("verbose", "v", false, "enable debug logging")
	csLevel     = pflag.Int("cs-level", 0, "Concert-Surround effect level, 0 disables")
	csReverb    = pflag.Int("cs-reverb", 0, "Concert-Surround reverb send, 0-100")
	dbeLevel    = pflag.Int("dbe-level", 0, "dynamic bass enhancer effect level, 0 disables")
	dbeCentre   = pflag.Int("dbe-centre", 55, "dynamic bass enhancer centre frequency: 55, 66, 78, or 90")
	dbeHPF      = pflag.Bool("dbe-hpf", true, "enable the dynamic bass enhancer's companion highpass")
	teLevel     = pflag.Int("te-level", 0, "treble enhancer effect level, 0 disables")
	volumeDB    = pflag.Int("volume", 0, "overall volume in dB, <= 0")
	balanceDB   = pflag.Int("balance", 0, "stereo balance in dB, -96..96")
	psaEnabled  = pflag.Bool("psa", false, "enable the peak-spectrum analyzer and print its bands after processing")
	eqBandFlags = pflag.StringArray("eq-band", nil, "parametric EQ band as centreHz:gainMilliDB:Q, repeatable")
	presetFile  = pflag.String("preset-file", "", "load CS/EQ/DBE/TE/volume/PSA settings from a YAML preset, overriding the flags above")
)

func main() {
	pflag.Parse()

	if *showVersion {
		fmt.Println(lvmfx.VersionString())
		return
	}

	if *verbose {
		lvmfx.Logger.SetLevel(log.DebugLevel)
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "pcmfx: -in is required")
		pflag.Usage()
		os.Exit(2)
	}

	bands, err := parseEQBands(*eqBandFlags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pcmfx: %v\n", err)
		os.Exit(2)
	}

	in, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pcmfx: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	decoder := wav.NewDecoder(in)
	if !decoder.IsValidFile() {
		fmt.Fprintln(os.Stderr, "pcmfx: not a valid WAV file")
		os.Exit(1)
	}
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pcmfx: decoding %s: %v\n", *inPath, err)
		os.Exit(1)
	}

	channels := pcm.Format.NumChannels
	fs := pcm.Format.SampleRate

	rate, ok := lvmfx.SampleRateFromHz(fs)
	if !ok {
		fmt.Fprintf(os.Stderr, "pcmfx: %dHz is not one of the supported rates\n", fs)
		os.Exit(1)
	}

	format := lvmfx.FormatStereo
	if channels == 1 {
		format = lvmfx.FormatMono
	} else if channels > 2 {
		format = lvmfx.FormatMultichannel
	}

	bundle := lvmfx.NewBundle()
	control := lvmfx.ControlParams{
		Mode:         lvmfx.OperatingOn,
		SampleRate:   rate,
		Format:       format,
		ChannelCount: channels,
		CS:           lvmfx.CSParams{Enabled: *csLevel > 0, EffectLevel: *csLevel, ReverbLevel: *csReverb},
		EQ:           lvmfx.EQParams{Enabled: len(bands) > 0, Bands: bands},
		DBE:          lvmfx.DBEParams{Enabled: *dbeLevel > 0, EffectLevel: *dbeLevel, CentreHz: *dbeCentre, HPFEnabled: *dbeHPF},
		TE:           lvmfx.TEParams{Enabled: *teLevel > 0, EffectLevel: *teLevel},
		VC:           lvmfx.VolumeParams{EffectLevelDB: *volumeDB, BalanceDB: *balanceDB},
		PSA:          lvmfx.PSAParams{Enabled: *psaEnabled},
	}

	if *presetFile != "" {
		p, err := loadPreset(*presetFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pcmfx: %v\n", err)
			os.Exit(1)
		}
		control = applyPreset(control, p)
	}

	if err := bundle.SetControl(control); err != nil {
		fmt.Fprintf(os.Stderr, "pcmfx: rejected control block: %v\n", err)
		os.Exit(1)
	}

	samples := intToFloat32(pcm.Data, pcm.SourceBitDepth)
	nFrames := len(samples) / channels
	processed := make([]float32, len(samples))

	blockIn := make([]float32, blockFrames*channels)
	blockOut := make([]float32, blockFrames*channels)
	for frame := 0; frame < nFrames; frame += blockFrames {
		n := blockFrames
		if frame+n > nFrames {
			n = nFrames - frame
		}
		copy(blockIn, samples[frame*channels:(frame+n)*channels])
		if err := bundle.Process(blockIn[:n*channels], blockOut[:n*channels], n, lvmfx.AccessWrite); err != nil {
			fmt.Fprintf(os.Stderr, "pcmfx: process: %v\n", err)
			os.Exit(1)
		}
		copy(processed[frame*channels:(frame+n)*channels], blockOut[:n*channels])
	}

	if *psaEnabled {
		printPeaks(bundle)
	}

	if *live {
		if err := playLive(processed, fs, channels); err != nil {
			fmt.Fprintf(os.Stderr, "pcmfx: live playback: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := writeWAV(resolveOutPath(*outPath, *inPath), processed, fs, channels, pcm.SourceBitDepth); err != nil {
		fmt.Fprintf(os.Stderr, "pcmfx: %v\n", err)
		os.Exit(1)
	}
}

func parseEQBands(flags []string) ([]lvmfx.EQBand, error) {
	bands := make([]lvmfx.EQBand, 0, len(flags))
	for _, f := range flags {
		parts := strings.Split(f, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("eq-band %q must be centreHz:gainMilliDB:Q", f)
		}
		centre, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("eq-band %q: %w", f, err)
		}
		gain, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("eq-band %q: %w", f, err)
		}
		q, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("eq-band %q: %w", f, err)
		}
		bands = append(bands, lvmfx.EQBand{CentreHz: centre, GainMilliDB: gain, Q: q})
	}
	return bands, nil
}

// intToFloat32 normalizes go-audio's signed-integer PCM data to [-1, 1]
// interleaved float32, lvmfx's native sample format.
func intToFloat32(data []int, bitDepth int) []float32 {
	full := float64(int(1) << (bitDepth - 1))
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(float64(v) / full)
	}
	return out
}

func float32ToInt(samples []float32, bitDepth int) []int {
	full := float64(int(1)<<(bitDepth-1)) - 1
	out := make([]int, len(samples))
	for i, v := range samples {
		s := float64(v) * full
		if s > full {
			s = full
		}
		if s < -full-1 {
			s = -full - 1
		}
		out[i] = int(s)
	}
	return out
}

func resolveOutPath(requested, inputPath string) string {
	if requested != "" {
		return requested
	}
	stamp, err := strftime.Format("%Y%m%d-%H%M%S", time.Now())
	if err != nil {
		stamp = "out"
	}
	base := strings.TrimSuffix(inputPath, ".wav")
	return fmt.Sprintf("%s.lvmfx-%s.wav", base, stamp)
}

func writeWAV(path string, samples []float32, fs, channels, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, fs, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: fs},
		Data:           float32ToInt(samples, bitDepth),
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	lvmfx.Logger.Debug("wrote output", "path", path, "frames", len(samples)/channels)
	return nil
}

// playLive streams the already-processed signal to the default output
// device; kept deliberately simple (whole buffer queued up front) since this
// tool is a bench harness, not the realtime host lvmfx is designed to run
// inside.
func playLive(samples []float32, fs, channels int) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()

	pos := 0
	nFrames := len(samples) / channels
	callback := func(out [][]float32) {
		framesThisCall := len(out[0])
		for f := 0; f < framesThisCall; f++ {
			if pos >= nFrames {
				for c := range out {
					out[c][f] = 0
				}
				continue
			}
			for c := range out {
				if c < channels {
					out[c][f] = samples[pos*channels+c]
				} else {
					out[c][f] = samples[pos*channels]
				}
			}
			pos++
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, channels, float64(fs), blockFrames, callback)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	for pos < nFrames {
		time.Sleep(20 * time.Millisecond)
	}
	return nil
}

func printPeaks(b *lvmfx.Bundle) {
	for i, p := range b.PSAPeaks() {
		db := math.Inf(-1)
		if p > 0 {
			db = 20 * math.Log10(p)
		}
		fmt.Printf("band %d: %.1f dB\n", i, db)
	}
}
