package health

import "context"

type Status struct {
	Version      string `json:"version"`
	Database     string `json:"database"`
	RulesLoaded  bool   `json:"rules_loaded"`
	MenuButtons  int    `json:"menu_buttons"`
	LiveSessions int    `json:"live_sessions"`
}

type IHealthUsecase interface {
	Check(ctx context.Context) Status
}
