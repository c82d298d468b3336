package llm

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/diogo/llmtui/internal/models"
)

const embeddingSuffix = "(embedding)"

// Aliases runs `<tool> aliases` and returns the models it reports.
func (r *Runner) Aliases(ctx context.Context) ([]models.ModelInfo, error) {
	out, err := r.output(ctx, "aliases")
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return ParseAliases(out), nil
}

// ParseAliases parses `alias: full-name` lines. Aliases that share a full
// name are grouped into one ModelInfo in first-seen order, and the first
// alias seen is preferred. Lines without a separator, with an empty side, or
// naming an embedding model are skipped.
func ParseAliases(out string) []models.ModelInfo {
	var infos []models.ModelInfo
	index := make(map[string]int)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		alias, name, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		alias = strings.TrimSpace(alias)
		name = strings.TrimSpace(name)
		if alias == "" || name == "" || strings.HasSuffix(name, embeddingSuffix) {
			continue
		}

		if i, seen := index[name]; seen {
			if !infos[i].HasAlias(alias) {
				infos[i].Aliases = append(infos[i].Aliases, alias)
			}
			continue
		}
		index[name] = len(infos)
		infos = append(infos, models.ModelInfo{
			Name:    name,
			Aliases: []string{alias},
		})
	}

	return infos
}
