package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/trekware/trekkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("user", cel.DynType),
			cel.Variable("trek", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是一条用 CEL (Common Expression Language) 表达的准入规则过滤器。
// 运营方可在配置中声明额外的准入条件，不用改代码。
//
// 表达式对 {user, trek} 两个变量求值，返回 true 表示线路对该用户准入。
// 示例：
//   - `!trek.permit_required || user.experience_level != "Beginner"`
//   - `trek.guide_required ? user.budget_max >= 2000.0 : true`
//   - `trek.max_altitude <= 5500 || user.altitude_experience >= 3000`
//
// 表达式在构造时编译，编译失败立刻报错（配置错误必须快速失败）。
type Rule struct {
	expr string
	prg  cel.Program
}

// NewRule 编译一条准入规则。
func NewRule(expr string) (*Rule, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
			fmt.Sprintf("config: compile rule %q: %v", expr, issues.Err()))
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("cel program: %w", err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// MustRules 批量编译规则，任何一条失败都返回错误。
func MustRules(exprs []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(exprs))
	for _, e := range exprs {
		r, err := NewRule(e)
		if err != nil {
			return nil, err
		}
		filters = append(filters, r)
	}
	return filters, nil
}

func (r *Rule) Name() string { return "filter.rule" }

// Expr 返回规则原文（用于日志与解释标签）。
func (r *Rule) Expr() string { return r.expr }

func (r *Rule) ShouldFilter(_ context.Context, user *core.UserProfile, trek *core.Trek) (bool, error) {
	out, _, err := r.prg.Eval(map[string]any{
		"user": userInput(user),
		"trek": trekInput(trek),
	})
	if err != nil {
		return false, fmt.Errorf("eval rule %q: %w", r.expr, err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q must return boolean, got %T", r.expr, out.Value())
	}
	return !allowed, nil
}

// userInput 把画像展开为 CEL 输入，key 与 API 的 JSON 字段一致。
func userInput(u *core.UserProfile) map[string]any {
	return map[string]any{
		"id":                  u.ID,
		"experience_level":    string(u.ExperienceLevel),
		"fitness_level":       string(u.FitnessLevel),
		"altitude_experience": u.AltitudeExperience,
		"budget_max":          u.BudgetMax,
		"available_days":      u.AvailableDays,
		"cultural_interest":   u.CulturalInterest,
		"nature_interest":     u.NatureInterest,
		"adventure_interest":  u.AdventureInterest,
		"preferred_seasons":   u.PreferredSeasons,
		"accommodation":       u.AccommodationPreference,
	}
}

func trekInput(t *core.Trek) map[string]any {
	return map[string]any{
		"id":              t.ID,
		"name":            t.Name,
		"region":          t.Region,
		"difficulty":      string(t.Difficulty),
		"duration_days":   t.DurationDays,
		"max_altitude":    t.MaxAltitude,
		"cost_min":        t.CostMin,
		"cost_max":        t.CostMax,
		"best_seasons":    t.BestSeasons,
		"permit_required": t.PermitRequired,
		"guide_required":  t.GuideRequired,
		"accommodation":   t.AccommodationType,
	}
}

var _ Filter = (*Rule)(nil)
