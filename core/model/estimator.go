package model

import "gonum.org/v1/gonum/mat"

// Fitter は教師なし学習のインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X mat.Matrix) error
}

// IncrementalClusterer は逐次学習（partial_fit）可能なクラスタリングのインターフェース
type IncrementalClusterer interface {
	Fitter

	// PartialFit はバッチを到着順に吸収する
	PartialFit(X mat.Matrix) error
}

// ClusterMixin はクラスタリングのMixinインターフェース
// scikit-learnのClusterMixinと同様に、ラベルは学習済みの全サンプルに対して返される
type ClusterMixin interface {
	IncrementalClusterer

	// Predict は吸収済みの全サンプルのクラスタラベルを返す（ノイズは -1）
	Predict() ([]int, error)

	// FitPredict は学習とラベル付けを同時に実行
	FitPredict(X mat.Matrix) ([]int, error)

	// NClusters は直近のラベル付けで得られたクラスタ数を返す
	NClusters() int
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	// GetParams はモデルのハイパーパラメータを返す
	GetParams() map[string]interface{}
}
