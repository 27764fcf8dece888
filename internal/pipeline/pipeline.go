package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jo-hoe/quadsplit/internal/config"
	"github.com/jo-hoe/quadsplit/internal/design"
	"github.com/jo-hoe/quadsplit/internal/imageio"
	"github.com/jo-hoe/quadsplit/internal/quadrant"
)

// ErrNameCollision is returned when two source images would write the same crops.
var ErrNameCollision = errors.New("source images share a basename")

// Pipeline splits every composite image in a directory and collects metadata.
type Pipeline struct {
	config   *config.Config
	decoders map[string]imageio.DecodeFunc
}

type source struct {
	name   string
	base   string
	decode imageio.DecodeFunc
}

// New validates the configuration and prepares a decoder per accepted extension.
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	decoders := make(map[string]imageio.DecodeFunc, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		decode, err := imageio.DefaultRegistry.Create(ext, cfg.DecoderParams())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize decoder: %w", err)
		}
		decoders[ext] = decode
	}

	slog.Debug("Pipeline: initialized", "extensions", cfg.Extensions)
	return &Pipeline{
		config:   cfg,
		decoders: decoders,
	}, nil
}

// Run processes inputDir and writes crops and metadata to outputDir.
func (p *Pipeline) Run(inputDir, outputDir string, margin float64) error {
	designs, sets, err := p.Process(inputDir, outputDir, margin)
	if err != nil {
		return err
	}
	return p.WriteOutputs(designs, sets, outputDir)
}

// Process splits every accepted image in inputDir, in filename order, writing
// four JPEG crops per image to outputDir. The first failure aborts the run;
// crops written before it stay on disk.
func (p *Pipeline) Process(inputDir, outputDir string, margin float64) ([]design.Design, []design.DesignSet, error) {
	if err := quadrant.ValidateMargin(margin); err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	sources, err := p.listSources(inputDir)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Pipeline: starting", "input_dir", inputDir, "output_dir", outputDir, "images", len(sources), "margin", margin)

	var designs []design.Design
	var sets []design.DesignSet
	for _, src := range sources {
		set, rows, err := p.processImage(inputDir, outputDir, src, margin)
		if err != nil {
			slog.Error("Pipeline: aborting run", "source", src.name, "error", err)
			return nil, nil, err
		}
		sets = append(sets, set)
		designs = append(designs, rows...)
	}

	slog.Info("Pipeline: images processed", "design_sets", len(sets), "designs", len(designs))
	return designs, sets, nil
}

// listSources returns the accepted images in lexicographic order and rejects
// basenames that would map to the same output files.
func (p *Pipeline) listSources(inputDir string) ([]source, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", inputDir, err)
	}

	var sources []source
	seen := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		decode, ok := p.decoders[ext]
		if entry.IsDir() || !ok {
			slog.Debug("Pipeline: skipping entry", "name", name)
			continue
		}

		base := strings.TrimSuffix(name, filepath.Ext(name))
		if other, dup := seen[base]; dup {
			return nil, fmt.Errorf("%w: %s and %s", ErrNameCollision, other, name)
		}
		seen[base] = name
		sources = append(sources, source{name: name, base: base, decode: decode})
	}
	return sources, nil
}

func (p *Pipeline) processImage(inputDir, outputDir string, src source, margin float64) (design.DesignSet, []design.Design, error) {
	img, err := imageio.DecodeFile(filepath.Join(inputDir, src.name), src.decode)
	if err != nil {
		return design.DesignSet{}, nil, err
	}

	quads, err := quadrant.Split(img, margin)
	if err != nil {
		return design.DesignSet{}, nil, fmt.Errorf("failed to split %s: %w", src.name, err)
	}

	setID, err := design.NewID()
	if err != nil {
		return design.DesignSet{}, nil, err
	}
	set := design.DesignSet{ID: setID, SourceImageURL: src.name}

	rows := make([]design.Design, 0, len(quads))
	for _, q := range quads {
		designID, err := design.NewID()
		if err != nil {
			return design.DesignSet{}, nil, err
		}

		outName := fmt.Sprintf("%s_q%d.jpg", src.base, q.Index)
		outPath := filepath.Join(outputDir, outName)
		slog.Debug("Pipeline: writing crop", "path", outPath, "quadrant_index", q.Index)
		if err := imageio.WriteJPEG(outPath, q.Image, p.config.JPEGQuality); err != nil {
			return design.DesignSet{}, nil, err
		}

		rows = append(rows, design.Design{
			ID:            designID,
			SetID:         setID,
			QuadrantIndex: q.Index,
			ImageURL:      p.config.ImageURLPrefix + outName,
		})
	}

	slog.Info("Pipeline: split image", "source", src.name, "set_id", setID)
	return set, rows, nil
}

// WriteOutputs writes the JSON index and the designs seed CSV into outputDir,
// plus the design sets CSV when one is configured.
func (p *Pipeline) WriteOutputs(designs []design.Design, sets []design.DesignSet, outputDir string) error {
	indexPath := filepath.Join(outputDir, p.config.IndexFile)
	if err := design.WriteFile(indexPath, func(w io.Writer) error {
		return design.EncodeIndex(w, designs)
	}); err != nil {
		return err
	}

	seedPath := filepath.Join(outputDir, p.config.SeedFile)
	if err := design.WriteFile(seedPath, func(w io.Writer) error {
		return design.EncodeSeedCSV(w, designs)
	}); err != nil {
		return err
	}

	written := []string{indexPath, seedPath}
	if p.config.DesignSetsFile != "" {
		setsPath := filepath.Join(outputDir, p.config.DesignSetsFile)
		if err := design.WriteFile(setsPath, func(w io.Writer) error {
			return design.EncodeSetCSV(w, sets)
		}); err != nil {
			return err
		}
		written = append(written, setsPath)
	}

	slog.Info("Pipeline: metadata written", "files", written)
	return nil
}
