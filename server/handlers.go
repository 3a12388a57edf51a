package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/trekware/trekkit/core"
	"github.com/trekware/trekkit/engine"
	"github.com/trekware/trekkit/strategy"
)

func (s *Server) handleListTreks(w http.ResponseWriter, r *http.Request) {
	treks, err := s.engine.Store().Treks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total": len(treks),
		"treks": treks,
	})
}

func (s *Server) handleGetTrek(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "trekID")
	if !ok {
		return
	}
	trek, err := s.engine.Store().TrekByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trek)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.engine.Store().Users(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total": len(users),
		"users": users,
	})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	// 解码到带默认值的画像上：缺席字段保持注册默认语义
	user := core.NewUserProfile(0)
	if err := json.NewDecoder(r.Body).Decode(user); err != nil {
		s.writeError(w, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"invalid user payload: "+err.Error()))
		return
	}
	user.ID = 0 // ID 由存储分配

	if err := s.engine.Store().SaveUser(r.Context(), user); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}
	user, err := s.engine.Store().UserByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}
	// 用户必须存在，评分引用悬空会污染协同信号
	if _, err := s.engine.Store().UserByID(r.Context(), userID); err != nil {
		s.writeError(w, err)
		return
	}

	var rating core.Rating
	if err := json.NewDecoder(r.Body).Decode(&rating); err != nil {
		s.writeError(w, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"invalid rating payload: "+err.Error()))
		return
	}
	rating.ID = 0
	rating.UserID = userID

	if _, err := s.engine.Store().TrekByID(r.Context(), rating.TrekID); err != nil {
		s.writeError(w, err)
		return
	}
	if rating.Value < 0.5 || rating.Value > 5.0 {
		s.writeError(w, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"rating must be between 0.5 and 5.0"))
		return
	}

	if err := s.engine.Store().SaveRating(r.Context(), &rating); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Rating recorded",
		"rating":  rating,
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}

	topK := 0
	if v := r.URL.Query().Get("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
				"top_k must be a non-negative integer"))
			return
		}
		topK = n
	}

	weights, err := blendWeightsFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var recs []*core.ScoredRecommendation
	if weights != nil && method == engine.MethodHybrid {
		recs, err = s.engine.Hybrid(r.Context(), userID, topK, weights)
	} else {
		recs, err = s.engine.Recommend(r.Context(), method, userID, topK)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		items = append(items, map[string]any{
			"trek_id":       rec.Trek.ID,
			"trek_name":     rec.Trek.Name,
			"region":        rec.Trek.Region,
			"difficulty":    rec.Trek.Difficulty,
			"duration_days": rec.Trek.DurationDays,
			"max_altitude":  rec.Trek.MaxAltitude,
			"cost_min":      rec.Trek.CostMin,
			"cost_max":      rec.Trek.CostMax,
			"score":         rec.Score,
			"explanation":   rec.Explanation,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"method":                method,
		"user_id":               userID,
		"total_recommendations": len(items),
		"recommendations":       items,
	})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathID(w, r, "userID")
	if !ok {
		return
	}
	trekID, ok := s.pathID(w, r, "trekID")
	if !ok {
		return
	}

	score := 0.0
	if v := r.URL.Query().Get("score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
				"score must be a number"))
			return
		}
		score = f
	}
	algorithm := r.URL.Query().Get("algorithm")

	expl, err := s.engine.Explain(r.Context(), userID, trekID, score, algorithm)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, expl)
}

// blendWeightsFromQuery 解析混合权重覆盖参数。三个参数都缺席时返回 nil，
// 交由引擎按用户分层选权重；部分覆盖时缺席的分量记 0，求和校验在引擎侧完成。
func blendWeightsFromQuery(r *http.Request) (*strategy.BlendWeights, error) {
	q := r.URL.Query()
	names := [3]string{"weight_content", "weight_collaborative", "weight_knowledge"}
	var vals [3]float64
	found := false
	for i, name := range names {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
				name+" must be a non-negative number")
		}
		vals[i] = f
		found = true
	}
	if !found {
		return nil, nil
	}
	return &strategy.BlendWeights{
		Content:       vals[0],
		Collaborative: vals[1],
		Knowledge:     vals[2],
	}, nil
}

// pathID 解析路径中的十进制 ID；非法时直接写 400。
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

// writeError 把领域错误映射到 HTTP 状态码：
// NOT_FOUND → 404，INVALID_INPUT → 400，其余 → 500。
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if domainErr := core.GetDomainError(err); domainErr != nil {
		switch domainErr.Code {
		case core.ErrorCodeNotFound:
			status = http.StatusNotFound
		case core.ErrorCodeInvalidInput:
			status = http.StatusBadRequest
		}
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]any{"error": err.Error()})
}
