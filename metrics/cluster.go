// Package metrics はクラスタリング結果の評価指標を提供する
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/denstream/pkg/errors"
)

// NoiseLabel はノイズ点のラベル
const NoiseLabel = -1

// ContingencyTable は正解ラベルと予測ラベルの分割表を返す
// 行は正解ラベル、列は予測ラベルに対応し、どちらも昇順に並ぶ
func ContingencyTable(labelsTrue, labelsPred []int) (table *mat.Dense, classes, clusters []int, err error) {
	n := len(labelsTrue)
	if n == 0 {
		return nil, nil, nil, errors.NewValueError("ContingencyTable", "empty label vector")
	}
	if len(labelsPred) != n {
		return nil, nil, nil, errors.NewDimensionError("ContingencyTable", n, len(labelsPred), 0)
	}

	classes = uniqueSorted(labelsTrue)
	clusters = uniqueSorted(labelsPred)
	row := indexOf(classes)
	col := indexOf(clusters)

	table = mat.NewDense(len(classes), len(clusters), nil)
	for i := 0; i < n; i++ {
		r, c := row[labelsTrue[i]], col[labelsPred[i]]
		table.Set(r, c, table.At(r, c)+1)
	}
	return table, classes, clusters, nil
}

// AdjustedRandScore は偶然の一致を補正したRand指数を計算する
// 1は完全一致、0付近はランダムな割り当てを意味する。ノイズ(-1)は1つのクラスタとして扱う
func AdjustedRandScore(labelsTrue, labelsPred []int) (float64, error) {
	table, _, _, err := ContingencyTable(labelsTrue, labelsPred)
	if err != nil {
		return 0, err
	}

	r, c := table.Dims()
	var sumComb, sumA, sumB float64
	for i := 0; i < r; i++ {
		var a float64
		for j := 0; j < c; j++ {
			v := table.At(i, j)
			sumComb += comb2(v)
			a += v
		}
		sumA += comb2(a)
	}
	for j := 0; j < c; j++ {
		sumB += comb2(mat.Sum(table.ColView(j)))
	}

	// 1サンプルでは点のペアが存在しないため total=0、expected=0 となり完全一致扱い
	total := comb2(float64(len(labelsTrue)))
	expected := errors.SafeDivide(sumA*sumB, total)
	maxIndex := (sumA + sumB) / 2
	if maxIndex == expected {
		// 全点が1クラスタ、または全点が別々のクラスタ
		return 1, nil
	}
	return (sumComb - expected) / (maxIndex - expected), nil
}

// NoiseRatio はノイズと判定された点の割合を返す
func NoiseRatio(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	noise := 0
	for _, l := range labels {
		if l == NoiseLabel {
			noise++
		}
	}
	return float64(noise) / float64(len(labels))
}

func comb2(n float64) float64 {
	return n * (n - 1) / 2
}

func uniqueSorted(labels []int) []int {
	seen := make(map[int]struct{}, len(labels))
	out := make([]int, 0)
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}

func indexOf(values []int) map[int]int {
	m := make(map[int]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}
