// Package ingest 负责把表格化的目录源文件导入 RecordStore。
//
// 目录 CSV 按表头取列（列顺序无关），缺失的可选列走文档化默认值；
// 只有线路名是必要列。导入对非空存储幂等：目录已有数据时跳过。
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/trekware/trekkit/core"
)

// LoadTreks 从 CSV 文件解析线路目录。
func LoadTreks(path string) ([]*core.Trek, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ParseTreks(f)
}

// ParseTreks 从 CSV 流解析线路目录。
func ParseTreks(r io.Reader) ([]*core.Trek, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, core.NewDomainError(core.ModuleIngest, core.ErrorCodeInvalidInput,
			"ingest: catalog is missing the required 'name' column")
	}

	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	treks := make([]*core.Trek, 0, 64)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		name := get(row, "name")
		if name == "" {
			continue
		}

		t := &core.Trek{
			Name:              name,
			Region:            get(row, "region"),
			Difficulty:        core.Difficulty(get(row, "difficulty")),
			DurationDays:      parseInt(get(row, "duration_days"), 0),
			MaxAltitude:       parseInt(get(row, "max_altitude"), 0),
			CostMin:           parseFloat(get(row, "cost_min"), 0),
			CostMax:           parseFloat(get(row, "cost_max"), 0),
			BestSeasons:       parseSeasons(get(row, "best_seasons")),
			CulturalScore:     parseFloat(get(row, "cultural_score"), 0.5),
			NatureScore:       parseFloat(get(row, "nature_score"), 0.5),
			AdventureScore:    parseFloat(get(row, "adventure_score"), 0.5),
			AccommodationType: get(row, "accommodation_type"),
			PermitRequired:    parseBool(get(row, "permit_required")),
			GuideRequired:     parseBool(get(row, "guide_required")),
			PhysicalFitness:   get(row, "physical_fitness"),
			TechnicalSkills:   get(row, "technical_skills"),
			Description:       get(row, "description"),
			Highlights:        get(row, "highlights"),
			AvgRating:         parseFloat(get(row, "avg_rating"), 0),
		}
		if t.CostMax < t.CostMin {
			t.CostMax = t.CostMin
		}
		treks = append(treks, t)
	}

	return treks, nil
}

// Seed 在目录为空时把线路写入存储；目录已有数据时跳过（幂等）。
// 返回实际写入的条数。
func Seed(ctx context.Context, st core.RecordStore, treks []*core.Trek) (int, error) {
	existing, err := st.Treks(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, t := range treks {
		if err := st.SaveTrek(ctx, t); err != nil {
			return 0, fmt.Errorf("seed trek %q: %w", t.Name, err)
		}
	}
	return len(treks), nil
}

// parseSeasons 解析季节列表，'|' 与 ',' 都是合法分隔符。
func parseSeasons(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "|", ",")
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "y":
		return true
	default:
		return false
	}
}
