package types

// PredictResponse is returned by POST /predict.
type PredictResponse struct {
	// Predicted median house value, in units of 100,000 USD.
	// example: 4.526
	PredictedPrice float64 `json:"predicted_price" example:"4.526"`
}

// BatchPredictRequest is the payload of POST /predict/batch.
type BatchPredictRequest struct {
	// Records to score. Must contain at least one element.
	Instances []HousingFeatures `json:"instances"`
}

// BatchPredictResponse is returned by POST /predict/batch.
type BatchPredictResponse struct {
	// Predictions in the same order as the request instances.
	// example: [4.526,3.585]
	Predictions []float64 `json:"predictions" example:"4.526,3.585"`
}

// Metrics holds regression metrics measured on a holdout set.
type Metrics struct {
	// example: 0.2554
	MSE float64 `json:"mse" example:"0.2554"`
	// example: 0.5053
	RMSE float64 `json:"rmse" example:"0.5053"`
	// example: 0.3275
	MAE float64 `json:"mae" example:"0.3275"`
	// example: 0.8051
	R2 float64 `json:"r2" example:"0.8051"`
}

// ModelInfo describes a trained model artifact. Returned by GET /model.
type ModelInfo struct {
	// Artifact identifier assigned at training time.
	// example: 3f1c2a9e-6a7b-4e0f-9a55-2b9c6d1e8f00
	ID string `json:"id" example:"3f1c2a9e-6a7b-4e0f-9a55-2b9c6d1e8f00"`
	// Estimator family.
	// example: random_forest_regressor
	Algorithm string `json:"algorithm" example:"random_forest_regressor"`
	// Training time (unix seconds).
	// example: 1700000000
	CreatedAt int64 `json:"created_at_unix" example:"1700000000"`
	// Feature names in the order the model expects them.
	FeatureNames []string `json:"feature_names"`
	// Estimator hyperparameters.
	Params map[string]any `json:"params,omitempty"`
	// Number of training rows.
	// example: 16512
	TrainSamples int `json:"train_samples" example:"16512"`
	// Number of holdout rows.
	// example: 4128
	TestSamples int `json:"test_samples" example:"4128"`
	// Holdout metrics, if a holdout was used.
	Holdout *Metrics `json:"holdout,omitempty"`
	// Out-of-bag R^2, when computed.
	OOBScore *float64 `json:"oob_score,omitempty"`
	// Normalized impurity-based feature importances keyed by feature name.
	FeatureImportances map[string]float64 `json:"feature_importances,omitempty"`
	// Path the artifact was loaded from (set by the server).
	// example: /models/model.gob
	Path string `json:"path,omitempty" example:"/models/model.gob"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Offending fields, for validation errors.
	// example: ["MedInc","Latitude"]
	Fields []string `json:"fields,omitempty" example:"MedInc,Latitude"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Lifecycle state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Identifier of the active model artifact.
	// example: 3f1c2a9e-6a7b-4e0f-9a55-2b9c6d1e8f00
	ModelID string `json:"model_id,omitempty" example:"3f1c2a9e-6a7b-4e0f-9a55-2b9c6d1e8f00"`
	// Path of the active model artifact.
	ModelPath string `json:"model_path,omitempty"`
	// Time the active model was loaded (unix seconds).
	// example: 1700000000
	LoadedAt int64 `json:"loaded_at_unix,omitempty" example:"1700000000"`
	// Number of successful model loads, including reloads.
	// example: 1
	LoadsTotal uint64 `json:"loads_total" example:"1"`
	// Number of records scored since start.
	// example: 42
	PredictionsTotal uint64 `json:"predictions_total" example:"42"`
	// Last error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
