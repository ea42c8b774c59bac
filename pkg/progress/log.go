// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package progress

import (
	luxlog "github.com/luxfi/log"
)

type logObserver struct {
	log luxlog.Logger
}

// NewLogObserver writes one structured log line per phase.
func NewLogObserver(log luxlog.Logger) Observer {
	return &logObserver{log: log}
}

func (o *logObserver) OnPhase(e Event) {
	fields := []interface{}{luxlog.Stringer("phase", e.Phase)}
	switch e.Phase {
	case Connected:
		fields = append(fields, luxlog.String("endpoint", e.Endpoint), luxlog.String("nodeVersion", e.NodeVersion))
	case IdentitiesResolved:
		fields = append(fields, luxlog.Int("identities", e.Identities), luxlog.Stringer("deployer", e.Deployer))
	case ArtifactLoaded:
		fields = append(fields, luxlog.String("artifact", e.Artifact))
	case Submitted:
		fields = append(fields, luxlog.Stringer("txHash", e.TxHash))
	case Confirmed:
		fields = append(fields, luxlog.Stringer("address", e.Address), luxlog.Uint64("block", e.Block))
	case Failed:
		o.log.Error("deployment failed", append(fields, luxlog.Err(e.Err))...)
		return
	}
	o.log.Info("deployment progress", fields...)
}
