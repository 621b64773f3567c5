package model

import "time"

// AnalysisResult は肌解析パイプラインが出力する解析結果を表す。
// スコア算出アルゴリズム自体はこのサービスの範囲外であり、
// 総合スコアを含む不透明な構造として保存する。
type AnalysisResult struct {
	Overall  *OverallResult  `json:"overall,omitempty"`
	Moisture *DimensionScore `json:"moisture,omitempty"`
	Oil      *DimensionScore `json:"oil,omitempty"`
	Wrinkle  *DimensionScore `json:"wrinkle,omitempty"`
	Pore     *DimensionScore `json:"pore,omitempty"`
}

// OverallResult は解析結果の総合評価を表す。
type OverallResult struct {
	Score float64 `json:"score"`
	Level string  `json:"level,omitempty"`
}

// DimensionScore は解析結果の個別項目スコアを表す。
type DimensionScore struct {
	Score float64 `json:"score"`
}

// Detection は1回の肌解析イベントを表す。
// OpenID（所有者）は作成時に固定され、以後変更されない。
// このサービスからは読み取り専用で、更新・削除は行わない。
type Detection struct {
	ID            string
	OpenID        string
	DetectionTime time.Time
	Analysis      AnalysisResult
	ImageKey      string
	CreatedAt     time.Time
}

// OverallScore は解析結果の総合スコアを返す。
// 総合評価が存在しない場合は0を返す。
func (d *Detection) OverallScore() float64 {
	if d.Analysis.Overall == nil {
		return 0
	}
	return d.Analysis.Overall.Score
}

// ComparisonPoint は検出履歴比較の1データポイントを表す。
// Changeは1つ古い検出との総合スコア差分（最古のポイントは常に0）。
type ComparisonPoint struct {
	ID     string
	Date   time.Time
	Score  float64
	Change float64
}
