package predictor

import (
	"time"

	"housingd/pkg/types"
)

// Status builds a detailed status response for /status.
func (p *Predictor) Status() types.StatusResponse {
	p.mu.RLock()
	defer p.mu.RUnlock()
	now := time.Now()
	resp := types.StatusResponse{
		State:            string(p.state),
		ModelPath:        p.path,
		LoadsTotal:       p.loads.Load(),
		PredictionsTotal: p.predictions.Load(),
		LastError:        p.err,
		UptimeSeconds:    int64(now.Sub(p.startTime).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
	if p.art != nil {
		resp.ModelID = p.art.Meta.ID
		resp.LoadedAt = p.loadedAt.Unix()
	}
	return resp
}
