// Package extract drives the extraction pipeline: enumerate source
// documents, locate attachment blocks, decode them and write the results.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fea/common"
	"fea/fattura"
	"fea/state"
)

// Run is the CLI action. It resolves effective settings (flags override
// configuration) and processes the positional path.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		// NOTE: app context is not initialized when there are no arguments
		return errors.New("no input path has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("extract")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	outDir := env.Cfg.Extract.OutputDir
	if cmd.IsSet("outdir") {
		outDir = cmd.String("outdir")
	}
	if len(outDir) > 0 {
		if outDir, err = filepath.Abs(outDir); err != nil {
			return err
		}
	}

	safety := common.MustParseSafety(env.Cfg.Extract.Safety)
	if cmd.IsSet("safety") {
		if safety, err = common.ParseSafety(cmd.String("safety")); err != nil {
			// anything other than "low" means "max"
			log.Warn("Unknown safety policy requested, existing files will not be overwritten", zap.Error(err))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("outdir", outDir), zap.Stringer("safety", safety))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, outDir, safety, log)
}

// process handles the core extraction logic independently of CLI framework.
// A missing source path is the only fatal condition - everything downstream
// is reported and skipped per item.
func process(ctx context.Context, src, outDir string, safety common.Safety, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		return processDir(ctx, src, outDir, safety, log)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}

	// a file named directly is processed regardless of extension
	processDocument(src, outDir, safety, log)
	return nil
}

// processDir processes direct-child xml files of the directory. The format
// never nests invoices in subdirectories, so there is no recursion.
func processDir(ctx context.Context, dir, outDir string, safety common.Safety, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to read directory (%s): %w", dir, err)
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		// stat rather than the lstat-based entry type so symlinked invoices
		// are followed, same as a file named on the command line
		path := filepath.Join(dir, e.Name())
		if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
			continue
		}
		count++
		processDocument(path, outDir, safety, log)
	}
	return nil
}

// processDocument extracts every attachment of a single invoice. Failures
// here never propagate - one bad file or block must not abort the batch.
func processDocument(path, outDir string, safety common.Safety, log *zap.Logger) {
	text, err := os.ReadFile(path)
	if err != nil {
		log.Error("Unable to read file", zap.String("file", path), zap.Error(err))
		return
	}

	doc := fattura.Document{Path: path, Text: string(text)}
	for _, block := range doc.Blocks() {
		att, err := fattura.Decode(block)
		if err != nil {
			log.Error("Unable to decode attachment", zap.String("file", path), zap.Error(err))
			continue
		}
		if att == nil {
			// empty payload, nothing to write
			continue
		}
		log.Debug("Attachment decoded",
			zap.String("file", path), zap.String("name", att.Filename), zap.Int("size", len(att.Data)),
			zap.String("compression", att.Compression), zap.String("description", att.Description))
		writeAttachment(att, outDir, safety, log)
	}
}
