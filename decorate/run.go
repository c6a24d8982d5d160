// Package decorate implements the decorate command: it finds pages in
// directories and archives, decorates their media and writes results to the
// destination.
package decorate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yudalvi/whirlp-da/archive"
	"github.com/yudalvi/whirlp-da/page"
	"github.com/yudalvi/whirlp-da/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("decorate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.Probe = cmd.Bool("probe") || env.Cfg.Decoration.Probe.Enable
	if m := cmd.String("manifest"); len(m) > 0 {
		if env.Manifest, err = filepath.Abs(m); err != nil {
			return err
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Bool("probe", env.Probe))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return execute(ctx, src, dst, nil, log)
}

// execute runs decoration independently of CLI framework, all parameters
// are expected to be already set in the environment.
func execute(ctx context.Context, src, dst string, httpClient *http.Client, log *zap.Logger) (err error) {
	env := state.EnvFromContext(ctx)

	p, err := newPipeline(env, httpClient, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, p.Close())
	}()

	if err := process(ctx, src, dst, p); err != nil {
		return err
	}

	if p.manifest != nil {
		if err := p.manifest.Save(env.Manifest); err != nil {
			return fmt.Errorf("unable to save manifest: %w", err)
		}
		log.Info("Manifest saved", zap.String("file", env.Manifest), zap.Int("pages", p.manifest.Len()))
		env.Rpt.Store("manifest.xml", env.Manifest)
	}
	return nil
}

// process determines the input type (directory, archive, or single page) and
// processes it accordingly.
func process(ctx context.Context, src, dst string, p *pipeline) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, p); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			// checking format - but cannot open target file
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, p); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if isPageFile(head) && len(tail) == 0 {
			// page cannot have tail
			file, err := os.Open(head)
			if err != nil {
				return fmt.Errorf("unable to open page: %w", err)
			}
			defer file.Close()
			if err := processPage(ctx, file, filepath.Base(head), dst, p); err != nil {
				p.log.Error("Unable to process page", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as page (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding pages and archives and processes
// them.
func processDir(ctx context.Context, dir, dst string, p *pipeline) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			p.log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			p.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			// checking format - but cannot open target file
			p.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := processArchive(ctx, path, "", filepath.Dir(strings.TrimPrefix(path, dir)), dst, p); err != nil {
				p.log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
			}
			count++
			return nil
		}

		if !isPageFile(path) {
			p.log.Debug("Skipping file, not recognized as page or archive", zap.String("file", path))
			return nil
		}

		count++

		file, err := os.Open(path)
		if err != nil {
			p.log.Error("Unable to process page", zap.String("file", path), zap.Error(err))
			return nil
		}
		defer file.Close()

		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processPage(ctx, file, src, dst, p); err != nil {
			p.log.Error("Unable to process page", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
	return err
}

// processArchive walks all pages inside archive under "pathIn" and processes
// them. "pathOut" is prepended to names of pages on the output.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, p *pipeline) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			p.log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	err = archive.Walk(path, pathIn, pageExts, func(e *archive.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		r, err := e.Open()
		if err != nil {
			p.log.Error("Unable to process page in archive",
				zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		if err := processPage(ctx, r, filepath.Join(pathOut, filepath.FromSlash(e.Name)), dst, p); err != nil {
			p.log.Error("Unable to process page in archive",
				zap.String("archive", e.Archive), zap.String("file", e.Name), zap.Error(err))
		}
		return nil
	})
	return err
}

// processPage decorates single page. "src" is part of the source path (always
// including file name) relative to the original path. When actual file was
// specified it will be just base file name without a path. When looking
// inside archive or directory it will be relative path inside archive or
// directory (including base file name). "dst" is the destination directory
// where the decorated page should be written.
func processPage(ctx context.Context, r io.Reader, src, dst string, p *pipeline) (rerr error) {
	env := p.env
	log := p.log

	var outputName string

	log.Info("Decoration starting", zap.String("from", src))
	defer func(start time.Time) {
		// one broken page should not stop the whole run
		if r := recover(); r != nil {
			log.Error("Decoration ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("decoration panic: %v", r)
		} else if rerr == nil {
			log.Info("Decoration completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	urlPath := "/" + filepath.ToSlash(src)
	doc, err := page.Parse(r, urlPath)
	if err != nil {
		return fmt.Errorf("unable to parse page (%s): %w", src, err)
	}

	lang := page.ParsePath(urlPath).Language(env.Cfg.Decoration.Fragments.Languages)
	doc.SetLang(lang)
	p.injectNavigation(ctx, doc, lang)

	res, err := p.decorator.DecorateMain(ctx, doc)
	if err != nil {
		return fmt.Errorf("unable to decorate page (%s): %w", src, err)
	}

	if p.prober != nil {
		sum, err := p.prober.Run(ctx, res.Embeds)
		if err != nil {
			return fmt.Errorf("unable to probe media (%s): %w", src, err)
		}
		log.Debug("Media probed", zap.String("page", src),
			zap.Int("loaded", sum.Loaded), zap.Int("failed", sum.Failed), zap.Int("skipped", sum.Skipped))
	}

	if p.manifest != nil {
		p.manifest.Add(doc.Path, lang, res.Embeds)
	}

	// Store decoration result for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData(fmt.Sprintf("tree-%s.txt", reportName(src)), dumpPage(doc, res))
	}

	outputName = buildOutputPath(src, dst, lang, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	if err := multierr.Append(doc.Render(out), out.Close()); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("result-%s%s", reportName(outputName), filepath.Ext(outputName)), outputName)
	}
	return nil
}
