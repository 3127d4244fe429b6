// Command cimbarcli is a front end over pkg/cimbar: it turns a file's
// bytes into an encoded CIMBAR frame, and turns a photographed frame back
// into bytes. Framing, error correction, and the bitmap tile assets
// themselves are all external to the codec this wraps.
package main

import (
	"fmt"
	"os"

	"github.com/cimbar-go/cimbar/pkg/cimbar"
	"github.com/cimbar-go/cimbar/pkg/cli"
	"github.com/cimbar-go/cimbar/pkg/grid"
	"github.com/cimbar-go/cimbar/pkg/palette"
)

func main() {
	loadEnv()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "deskew":
		err = runDeskew(os.Args[2:])
	case "update":
		err = cli.CheckForUpdates()
	case "version":
		fmt.Println(cli.Version)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "cimbarcli:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cimbarcli <encode|decode|deskew|update|version> [flags]")
}

// codecFlags holds the options every subcommand that touches the
// codec shares: asset directory, palette mode, and bit widths.
type codecFlags struct {
	assetDir   string
	dark       bool
	symbolBits int
	colorBits  int
	strategy   string
}

func (f *codecFlags) parse(as argSet) error {
	f.assetDir = as.stringOpt("assets", envOrDefault("CIMBAR_ASSET_DIR", "bitmap"))

	dark, err := as.boolOpt("dark", envBoolOrDefault("CIMBAR_DARK", false))
	if err != nil {
		return err
	}
	f.dark = dark

	symbolBits, err := as.intOpt("symbol-bits", envIntOrDefault("CIMBAR_SYMBOL_BITS", 4))
	if err != nil {
		return err
	}
	f.symbolBits = symbolBits

	colorBits, err := as.intOpt("color-bits", envIntOrDefault("CIMBAR_COLOR_BITS", 2))
	if err != nil {
		return err
	}
	f.colorBits = colorBits

	f.strategy = as.stringOpt("strategy", envOrDefault("CIMBAR_STRATEGY", "lab"))
	return nil
}

func (f *codecFlags) parseStrategy() (palette.Strategy, error) {
	switch f.strategy {
	case "lab", "":
		return palette.StrategyLab, nil
	case "rgb":
		return palette.StrategyRGB, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want lab or rgb)", f.strategy)
	}
}

func runEncode(args []string) error {
	as := parseArgs(args)
	var cf codecFlags
	if err := cf.parse(as); err != nil {
		return err
	}
	if len(as.positional) != 2 {
		return fmt.Errorf("usage: cimbarcli encode [--flags] <input-file> <output.png>")
	}
	inputPath, outputPath := as.positional[0], as.positional[1]

	payload, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	strategy, err := cf.parseStrategy()
	if err != nil {
		return err
	}
	opts := cimbar.Options{
		Dark:       cf.dark,
		SymbolBits: cf.symbolBits,
		ColorBits:  cf.colorBits,
		Geometry:   grid.Default,
		Strategy:   strategy,
	}

	bitsPerCell := cf.symbolBits + cf.colorBits
	cellCount := opts.Geometry.CellCount()
	framed := prependLength(payload)
	cells := packBits(framed, bitsPerCell, cellCount)

	assets := os.DirFS(cf.assetDir)
	canvas, err := cimbar.Encode(assets, opts, cells)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return cli.SaveImage(outputPath, canvas)
}

func runDecode(args []string) error {
	as := parseArgs(args)
	var cf codecFlags
	if err := cf.parse(as); err != nil {
		return err
	}

	skip, err := as.intOpt("skip", envIntOrDefault("CIMBAR_SKIP", 0))
	if err != nil {
		return err
	}
	sharpen, err := as.boolOpt("sharpen", false)
	if err != nil {
		return err
	}
	despeckle, err := as.boolOpt("despeckle", false)
	if err != nil {
		return err
	}
	maxDim, err := as.intOpt("max-dim", envIntOrDefault("CIMBAR_MAX_DIM", 0))
	if err != nil {
		return err
	}
	overlayPath := as.stringOpt("debug-overlay", "")

	if len(as.positional) != 2 {
		return fmt.Errorf("usage: cimbarcli decode [--flags] <input-image> <output-file>")
	}
	inputPath, outputPath := as.positional[0], as.positional[1]

	frame, err := loadFrame(inputPath)
	if err != nil {
		return err
	}
	frame = preprocessFrame(frame, maxDim, sharpen, despeckle)

	if overlayPath != "" {
		annotated, err := debugOverlay(frame, cf.dark, skip)
		if err != nil {
			return fmt.Errorf("debug overlay: %w", err)
		}
		return cli.SaveImage(overlayPath, annotated)
	}

	strategy, err := cf.parseStrategy()
	if err != nil {
		return err
	}
	opts := cimbar.Options{
		Dark:       cf.dark,
		SymbolBits: cf.symbolBits,
		ColorBits:  cf.colorBits,
		Geometry:   grid.Default,
		Skip:       skip,
		Strategy:   strategy,
	}

	assets := os.DirFS(cf.assetDir)
	cells, err := cimbar.Decode(assets, opts, frame)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	bitsPerCell := cf.symbolBits + cf.colorBits
	lengthBits := unpackLengthPrefixBits()
	header, err := unpackBits(cells, bitsPerCell, lengthBits/8)
	if err != nil {
		return err
	}
	n := decodeLength(header)

	payload, err := unpackBits(cells, bitsPerCell, lengthBits/8+n)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, payload[lengthBits/8:], 0o644)
}
