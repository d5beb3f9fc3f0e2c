package main

/*------------------------------------------------------------------
 *
 * Purpose:	Standalone demonstration of the Reverberator: feed it an
 *		impulse (or a short WAV file) and write the wet tail out
 *		as its own WAV file, so the decay curve can be inspected
 *		without wiring up the full effect bundle.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/pflag"

	"github.com/avfxteam/lvmfx/src"
)

const blockFrames = 256

var (
	inPath    = pflag.StringP("in", "i", "", "optional input WAV; an impulse is used if omitted")
	outPath   = pflag.StringP("out", "o", "reverbtail.wav", "output WAV file for the wet tail")
	fsFlag    = pflag.Int("rate", 44100, "sample rate, used only when -in is omitted")
	insert    = pflag.Bool("insert", true, "insert mode (stereo in/out, dry mixed in); false selects auxiliary (mono send, pure wet)")
	preset    = pflag.String("preset", "largehall", "reverb preset: none, smallroom, mediumroom, largeroom, mediumhall, largehall, plate")
	t60Ms     = pflag.Int("t60", 0, "override decay time in milliseconds, 0 keeps the preset's value")
	tailSecs  = pflag.Float64("tail", 3.0, "seconds of tail to render after the input ends")
)

var presetNames = map[string]lvmfx.ReverbPreset{
	"none":       lvmfx.PresetNone,
	"smallroom":  lvmfx.PresetSmallRoom,
	"mediumroom": lvmfx.PresetMediumRoom,
	"largeroom":  lvmfx.PresetLargeRoom,
	"mediumhall": lvmfx.PresetMediumHall,
	"largehall":  lvmfx.PresetLargeHall,
	"plate":      lvmfx.PresetPlate,
}

func main() {
	pflag.Parse()

	p, ok := presetNames[*preset]
	if !ok {
		fmt.Fprintf(os.Stderr, "reverbtail: unknown preset %q\n", *preset)
		os.Exit(2)
	}

	mode := lvmfx.ReverbInsert
	inChannels := 2
	if !*insert {
		mode = lvmfx.ReverbAuxiliary
		inChannels = 1
	}

	r := lvmfx.NewReverberator()
	if err := r.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "reverbtail: init: %v\n", err)
		os.Exit(1)
	}
	r.EnablePresetMode()

	fs := *fsFlag
	var dry []float32
	if *inPath != "" {
		samples, rate, channels, err := readWAV(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reverbtail: %v\n", err)
			os.Exit(1)
		}
		fs = rate
		dry = downmixOrDuplicate(samples, channels, inChannels)
	} else {
		dry = make([]float32, inChannels*blockFrames)
		for c := 0; c < inChannels; c++ {
			dry[c] = 1.0
		}
	}

	if err := r.SetConfig(fs, mode); err != nil {
		fmt.Fprintf(os.Stderr, "reverbtail: set config: %v\n", err)
		os.Exit(1)
	}
	if err := r.SetParameter(lvmfx.ParamPreset, int64(p)); err != nil {
		fmt.Fprintf(os.Stderr, "reverbtail: set preset: %v\n", err)
		os.Exit(1)
	}
	if *t60Ms > 0 {
		// The pending preset is loaded at the start of the next Process call
		// and would overwrite the decay time; a zero-frame block loads it now.
		if err := r.Process(nil, nil, 0, lvmfx.AccessWrite); err != nil {
			fmt.Fprintf(os.Stderr, "reverbtail: load preset: %v\n", err)
			os.Exit(1)
		}
		if err := r.SetParameter(lvmfx.ParamDecayTime, int64(*t60Ms)); err != nil {
			fmt.Fprintf(os.Stderr, "reverbtail: override t60: %v\n", err)
			os.Exit(1)
		}
	}
	r.SetEnabled(true)

	wet := make([]float32, 0, len(dry)*2)
	process := func(block []float32, frames int) {
		out := make([]float32, frames*2)
		if err := r.Process(block, out, frames, lvmfx.AccessWrite); err != nil {
			fmt.Fprintf(os.Stderr, "reverbtail: process: %v\n", err)
			os.Exit(1)
		}
		wet = append(wet, out...)
	}

	dryFrames := len(dry) / inChannels
	block := make([]float32, blockFrames*inChannels)
	for frame := 0; frame < dryFrames; frame += blockFrames {
		n := blockFrames
		if frame+n > dryFrames {
			n = dryFrames - frame
		}
		copy(block, dry[frame*inChannels:(frame+n)*inChannels])
		process(block[:n*inChannels], n)
	}

	r.SetEnabled(false)
	silence := make([]float32, blockFrames*inChannels)
	tailFrames := int(*tailSecs * float64(fs))
	for rendered := 0; rendered < tailFrames; rendered += blockFrames {
		n := blockFrames
		if rendered+n > tailFrames {
			n = tailFrames - rendered
		}
		out := make([]float32, n*2)
		if err := r.Process(silence[:n*inChannels], out, n, lvmfx.AccessWrite); err != nil {
			break // ErrNoData once the tail has fully drained
		}
		wet = append(wet, out...)
	}

	if err := writeWAV(*outPath, wet, fs, 2); err != nil {
		fmt.Fprintf(os.Stderr, "reverbtail: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("reverbtail: wrote %d frames to %s\n", len(wet)/2, *outPath)
}

func readWAV(path string) (samples []float32, fs, channels int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("%s is not a valid WAV file", path)
	}
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, err
	}
	full := float64(int(1) << (pcm.SourceBitDepth - 1))
	out := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		out[i] = float32(float64(v) / full)
	}
	return out, pcm.Format.SampleRate, pcm.Format.NumChannels, nil
}

// downmixOrDuplicate reshapes an arbitrary-channel source into exactly
// wantChannels by averaging down to mono or duplicating mono up, matching
// the reverberator's fixed mono/stereo input contract.
func downmixOrDuplicate(samples []float32, sourceChannels, wantChannels int) []float32 {
	if sourceChannels == wantChannels {
		return samples
	}
	frames := len(samples) / sourceChannels
	out := make([]float32, frames*wantChannels)
	for f := 0; f < frames; f++ {
		var mono float32
		for c := 0; c < sourceChannels; c++ {
			mono += samples[f*sourceChannels+c]
		}
		mono /= float32(sourceChannels)
		for c := 0; c < wantChannels; c++ {
			out[f*wantChannels+c] = mono
		}
	}
	return out
}

func writeWAV(path string, samples []float32, fs, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bitDepth = 16
	full := float64(int(1)<<(bitDepth-1)) - 1
	data := make([]int, len(samples))
	for i, v := range samples {
		s := float64(v) * full
		if s > full {
			s = full
		}
		if s < -full-1 {
			s = -full - 1
		}
		data[i] = int(s)
	}

	encoder := wav.NewEncoder(f, fs, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: fs},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return err
	}
	return encoder.Close()
}
