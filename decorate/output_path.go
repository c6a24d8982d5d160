package decorate

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/yudalvi/whirlp-da/config"
	"github.com/yudalvi/whirlp-da/state"
)

// buildOutputPath returns constructed output file path/name based on various
// input parameters. It uses either source file name or user-defined template
// and takes into account whether to preserve source directory structure on
// the output. Segments produced by template are turned into slugs, source
// extension is always kept.
func buildOutputPath(src, dst, lang string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := config.CleanFileName(filepath.Base(src))

	if env.Cfg.Decoration.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(src, lang, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}

	return assemblePathWithSubdirs(outDir, expandedName, filepath.Ext(src))
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func expandOutputNameTemplate(src, lang string, env *state.LocalEnv) string {
	values := newValues(config.OutputNameTemplateFieldName, src, lang)
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Decoration.OutputNameTemplate, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning every segment
func assemblePathWithSubdirs(outDir, expandedName, outExt string) string {
	pathSegments := splitAndCleanPath(expandedName)

	if len(pathSegments) == 0 {
		return outDir
	}

	fileName := cleanPathSegment(pathSegments[len(pathSegments)-1]) + outExt
	dirParts := make([]string, 0, len(pathSegments)+1)
	dirParts = append(dirParts, outDir)

	for _, segment := range pathSegments[:len(pathSegments)-1] {
		dirParts = append(dirParts, cleanPathSegment(segment))
	}

	dirParts = append(dirParts, fileName)
	return filepath.Join(dirParts...)
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}

	return segments
}

func cleanPathSegment(segment string) string {
	return config.CleanFileName(slug.Make(segment))
}
