package cluster

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/denstream/core/dbscan"
	"github.com/YuminosukeSato/denstream/core/denstream"
	"github.com/YuminosukeSato/denstream/core/microcluster"
	"github.com/YuminosukeSato/denstream/core/model"
	"github.com/YuminosukeSato/denstream/pkg/errors"
	"github.com/YuminosukeSato/denstream/pkg/log"
)

const estimatorName = "DenStream"

// DenStream はDenStreamによるストリーミング密度クラスタリング
// scikit-learn風の partial_fit / labels_ インターフェースを提供する
//
// 点は到着順に吸収され、マイクロクラスタは 2^(-lambda*dt) で減衰する。
// Predict を呼ぶとポテンシャルマイクロクラスタに対してオフラインDBSCANを実行し、
// 吸収済みの全サンプルにラベルを付ける（ノイズは -1）。
type DenStream struct {
	model.BaseEstimator

	// ハイパーパラメータ（構築後は不変）
	cfg denstream.Config

	// 内部状態
	mu     sync.RWMutex
	engine *denstream.Engine
	id     string
	logger log.Logger

	// 直近のオフライン結果
	resultMu   sync.Mutex
	result_    dbscan.Result
	nClusters_ int
}

// DenStreamOption はDenStreamの設定オプション
type DenStreamOption func(*denStreamOptions)

type denStreamOptions struct {
	cfg    denstream.Config
	logger log.Logger
}

// WithWindowRange は時間窓（時間単位）を設定
func WithWindowRange(r int64) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.WindowRange = r }
}

// WithEpsilon はマイクロクラスタの最大半径を設定
func WithEpsilon(eps float64) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.Epsilon = eps }
}

// WithBeta はポテンシャル判定の係数を設定
func WithBeta(beta float64) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.Beta = beta }
}

// WithMu はコア重みの閾値を設定
func WithMu(mu float64) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.Mu = mu }
}

// WithInitPoints は初期化バッファのサイズを設定（0で無効）
func WithInitPoints(n int) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.InitPoints = n }
}

// WithOfflineMultiplier はオフライン半径の倍率を設定
func WithOfflineMultiplier(m float64) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.OfflineMultiplier = m }
}

// WithLambda は減衰率を設定
func WithLambda(lambda float64) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.Lambda = lambda }
}

// WithProcessingSpeed は1時間単位あたりの点数を設定
func WithProcessingSpeed(speed int) DenStreamOption {
	return func(o *denStreamOptions) { o.cfg.ProcessingSpeed = speed }
}

// WithLogger はロガーを設定
func WithLogger(l log.Logger) DenStreamOption {
	return func(o *denStreamOptions) { o.logger = l }
}

// NewDenStream は新しいDenStreamを作成
// 不正なパラメータは ConfigurationError を返す
func NewDenStream(dimensions int, options ...DenStreamOption) (*DenStream, error) {
	opts := &denStreamOptions{cfg: denstream.DefaultConfig(dimensions)}
	for _, opt := range options {
		opt(opts)
	}
	return newDenStream(opts.cfg, opts.logger)
}

// NewDenStreamFromConfig は設定構造体からDenStreamを作成
func NewDenStreamFromConfig(cfg denstream.Config, options ...DenStreamOption) (*DenStream, error) {
	opts := &denStreamOptions{cfg: cfg}
	for _, opt := range options {
		opt(opts)
	}
	return newDenStream(opts.cfg, opts.logger)
}

func newDenStream(cfg denstream.Config, logger log.Logger) (*DenStream, error) {
	engine, err := denstream.New(cfg)
	if err != nil {
		return nil, err
	}
	d := &DenStream{
		cfg:    cfg,
		engine: engine,
		id:     uuid.NewString(),
	}
	d.setLogger(logger)
	return d, nil
}

func (d *DenStream) setLogger(l log.Logger) {
	if l == nil {
		l = log.GetLoggerWithName("cluster.denstream")
	}
	d.logger = l.With(
		log.ModelNameKey, estimatorName,
		log.EstimatorIDKey, d.id,
	)
	d.engine.SetLogger(d.logger)
}

// ID は推定器の識別子を返す
func (d *DenStream) ID() string {
	return d.id
}

// Config は構築時の設定を返す
func (d *DenStream) Config() denstream.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// GetParams はハイパーパラメータを返す
func (d *DenStream) GetParams() map[string]interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return map[string]interface{}{
		"dimensions":         d.cfg.Dimensions,
		"window_range":       d.cfg.WindowRange,
		"epsilon":            d.cfg.Epsilon,
		"beta":               d.cfg.Beta,
		"mu":                 d.cfg.Mu,
		"init_points":        d.cfg.InitPoints,
		"offline_multiplier": d.cfg.OfflineMultiplier,
		"lambda":             d.cfg.Lambda,
		"processing_speed":   d.cfg.ProcessingSpeed,
	}
}

// Fit はバッチを一度だけ吸収する（PartialFitの別名）
func (d *DenStream) Fit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "DenStream.Fit")
	return d.absorbMatrix(X, log.OperationFit)
}

// PartialFit はバッチを到着順に吸収する
// 列数が異なる行列は一点も吸収せずに DimensionError を返す
func (d *DenStream) PartialFit(X mat.Matrix) (err error) {
	defer errors.Recover(&err, "DenStream.PartialFit")
	return d.absorbMatrix(X, log.OperationPartialFit)
}

// PartialFitVectors は点列を到着順に吸収する
// 最初の不正な点で停止し、それ以前の点は吸収済みのまま残る
func (d *DenStream) PartialFitVectors(points [][]float64) (err error) {
	defer errors.Recover(&err, "DenStream.PartialFitVectors")

	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	for i, p := range points {
		if err := d.absorb(p); err != nil {
			d.afterAbsorb(log.OperationPartialFit, i, start)
			return err
		}
	}
	d.afterAbsorb(log.OperationPartialFit, len(points), start)
	return nil
}

func (d *DenStream) absorbMatrix(X mat.Matrix, op string) error {
	if X == nil {
		return errors.NewValueError(op, "nil matrix")
	}
	rows, cols := X.Dims()

	d.mu.Lock()
	defer d.mu.Unlock()

	if cols != d.cfg.Dimensions {
		err := errors.NewDimensionError(op, d.cfg.Dimensions, cols, 1)
		d.logger.Error("Rejected batch", err,
			log.OperationKey, op,
			log.ErrorCodeKey, log.ErrorDimensionMismatch,
		)
		return err
	}

	start := time.Now()
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		if err := d.absorb(row); err != nil {
			d.afterAbsorb(op, i, start)
			return err
		}
	}
	d.afterAbsorb(op, rows, start)
	return nil
}

// absorb は一点を吸収する。呼び出し側が書き込みロックを保持する
func (d *DenStream) absorb(p []float64) error {
	index := d.engine.Processed()
	if err := d.engine.AbsorbNext(p); err != nil {
		code := log.ErrorInvalidInput
		var derr *errors.DimensionError
		if errors.As(err, &derr) {
			code = log.ErrorDimensionMismatch
		}
		d.logger.Error("Rejected point", err,
			log.SampleIndexKey, index,
			log.ErrorCodeKey, code,
		)
		return err
	}
	return nil
}

func (d *DenStream) afterAbsorb(op string, rows int, start time.Time) {
	if rows == 0 {
		return
	}
	d.SetFitted()
	if d.logger.Enabled(context.Background(), log.LevelDebug) {
		st := d.engine.Stats()
		d.logger.Debug("Absorbed batch",
			log.OperationKey, op,
			log.SamplesKey, rows,
			log.ProcessedKey, st.Processed,
			log.ClockKey, st.Clock,
			log.PotentialKey, st.Potential,
			log.OutlierKey, st.Outlier,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}
}

// Predict はオフラインDBSCANを実行し、吸収済みの全サンプルのラベルを返す
// 一点も吸収していない場合は NotInitializedError を返す
// 途中で状態が変わらなければ何度呼んでも同じ結果になる
func (d *DenStream) Predict() (labels []int, err error) {
	defer errors.Recover(&err, "DenStream.Predict")
	return d.predict(log.OperationPredict)
}

// Labels はscikit-learnの labels_ に相当する
func (d *DenStream) Labels() ([]int, error) {
	return d.Predict()
}

func (d *DenStream) predict(op string) ([]int, error) {
	d.mu.RLock()
	if d.engine.Processed() == 0 {
		d.mu.RUnlock()
		err := errors.NewNotInitializedError(estimatorName, "Predict")
		d.logger.Error("Offline clustering requested before any point", err,
			log.OperationKey, op,
			log.ErrorCodeKey, log.ErrorNotInitialized,
		)
		return nil, err
	}
	start := time.Now()
	snap := d.engine.Snapshot(microcluster.Potential)
	owners := d.engine.Owners()
	params := dbscan.Params{
		Radius:    d.cfg.OfflineRadius(),
		MinWeight: d.cfg.Mu,
	}
	d.mu.RUnlock()

	res := dbscan.Recluster(snap, params)
	labels := dbscan.Relabel(owners, res)

	d.resultMu.Lock()
	d.result_ = res
	d.nClusters_ = res.NClusters
	d.resultMu.Unlock()

	d.logger.Info("Offline clustering finished",
		log.OperationKey, op,
		log.SamplesKey, len(owners),
		log.MicroClustersKey, len(snap),
		log.ClustersKey, res.NClusters,
		log.NoiseKey, len(res.Noise),
		log.RadiusKey, params.Radius,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return labels, nil
}

// FitPredict は学習とラベル付けを同時に行う
func (d *DenStream) FitPredict(X mat.Matrix) (labels []int, err error) {
	defer errors.Recover(&err, "DenStream.FitPredict")
	if err := d.absorbMatrix(X, log.OperationFitPredict); err != nil {
		return nil, err
	}
	return d.predict(log.OperationFitPredict)
}

// ストリーミング学習メソッド

// FitStream はデータストリームからモデルを学習
// コンテキストのキャンセルかチャネルのクローズで終了する
func (d *DenStream) FitStream(ctx context.Context, dataChan <-chan *model.Batch) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case batch, ok := <-dataChan:
			if !ok {
				return nil
			}
			if batch == nil || batch.X == nil {
				continue
			}
			if err := d.PartialFit(batch.X); err != nil {
				return err
			}
		}
	}
}

// GetProcessedSamples は吸収済みのサンプル数を返す
func (d *DenStream) GetProcessedSamples() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine.Processed()
}

// NClusters は直近のPredictで得られたクラスタ数を返す
func (d *DenStream) NClusters() int {
	d.resultMu.Lock()
	defer d.resultMu.Unlock()
	return d.nClusters_
}

// Clusters は直近のPredictで得られたクラスタを返す
func (d *DenStream) Clusters() []dbscan.Cluster {
	d.resultMu.Lock()
	defer d.resultMu.Unlock()

	out := make([]dbscan.Cluster, len(d.result_.Clusters))
	for i, c := range d.result_.Clusters {
		out[i] = dbscan.Cluster{
			ID:      c.ID,
			Center:  append([]float64(nil), c.Center...),
			Weight:  c.Weight,
			Members: append([]uint64(nil), c.Members...),
		}
	}
	return out
}

// MicroClusters は現在時刻に射影した全マイクロクラスタのコピーを返す
func (d *DenStream) MicroClusters() []microcluster.Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine.Snapshot()
}

// NMicroClusters は生存中のマイクロクラスタ数を返す
func (d *DenStream) NMicroClusters() int {
	st := d.Stats()
	return st.Potential + st.Outlier
}

// Stats はエンジンの統計情報を返す
func (d *DenStream) Stats() denstream.Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.engine.Stats()
}

// 永続化

// Checkpoint はgobで保存される推定器の状態
type Checkpoint struct {
	ID    string
	State denstream.State
}

// Save は推定器の状態をio.Writerに保存する
func (d *DenStream) Save(w io.Writer) error {
	d.mu.RLock()
	cp := Checkpoint{ID: d.id, State: d.engine.State()}
	d.mu.RUnlock()
	return model.SaveModelToWriter(cp, w)
}

// SaveFile は推定器の状態をファイルに保存する
func (d *DenStream) SaveFile(filename string) error {
	d.mu.RLock()
	cp := Checkpoint{ID: d.id, State: d.engine.State()}
	d.mu.RUnlock()
	return model.SaveModel(cp, filename)
}

// Load はio.Readerから状態を読み込み、現在のエンジン状態を置き換える
// ハイパーパラメータは構築後に変わらないため、設定が異なるチェックポイントは拒否する
// 別の設定で保存された状態は LoadDenStream で復元する
func (d *DenStream) Load(r io.Reader) error {
	var cp Checkpoint
	if err := model.LoadModelFromReader(&cp, r); err != nil {
		return err
	}
	return d.restore(cp)
}

// LoadDenStream はio.Readerから推定器を復元する
// ハイパーパラメータは保存時のものを使うため、WithLogger以外のオプションは無視される
func LoadDenStream(r io.Reader, options ...DenStreamOption) (*DenStream, error) {
	var cp Checkpoint
	if err := model.LoadModelFromReader(&cp, r); err != nil {
		return nil, err
	}
	return fromCheckpoint(cp, options)
}

// LoadDenStreamFile はファイルから推定器を復元する
func LoadDenStreamFile(filename string, options ...DenStreamOption) (*DenStream, error) {
	var cp Checkpoint
	if err := model.LoadModel(&cp, filename); err != nil {
		return nil, err
	}
	return fromCheckpoint(cp, options)
}

func fromCheckpoint(cp Checkpoint, options []DenStreamOption) (*DenStream, error) {
	opts := &denStreamOptions{cfg: cp.State.Config}
	for _, opt := range options {
		opt(opts)
	}
	d := &DenStream{cfg: cp.State.Config, id: cp.ID}
	engine, err := denstream.Restore(cp.State)
	if err != nil {
		return nil, err
	}
	d.engine = engine
	if d.id == "" {
		d.id = uuid.NewString()
	}
	d.setLogger(opts.logger)
	if engine.Processed() > 0 {
		d.SetFitted()
	}
	return d, nil
}

func (d *DenStream) restore(cp Checkpoint) error {
	engine, err := denstream.Restore(cp.State)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if cp.State.Config.Dimensions != d.cfg.Dimensions {
		return errors.NewDimensionError("Load", d.cfg.Dimensions, cp.State.Config.Dimensions, 1)
	}
	if cp.State.Config != d.cfg {
		return errors.NewConfigurationError("checkpoint", "hyperparameters differ from the estimator's", cp.State.Config)
	}
	d.engine = engine
	d.engine.SetLogger(d.logger)
	d.Reset()
	if engine.Processed() > 0 {
		d.SetFitted()
	}

	d.resultMu.Lock()
	d.result_ = dbscan.Result{}
	d.nClusters_ = 0
	d.resultMu.Unlock()
	return nil
}

var (
	_ model.ClusterMixin       = (*DenStream)(nil)
	_ model.StreamingClusterer = (*DenStream)(nil)
	_ model.StreamingMetrics   = (*DenStream)(nil)
	_ model.ParameterGetter    = (*DenStream)(nil)
)
