package planning

import (
	api "github.com/cloudpivot/migration-planner/api/v1alpha1"
)

// RTT penalty factors applied to cross-site transport throughput. High
// round-trip latency degrades effective TCP throughput well below the raw
// link capacity.
const (
	rttModerateMs = 50.0
	rttHighMs     = 150.0

	rttModeratePenalty = 0.85
	rttHighPenalty     = 0.6
)

// ComputeBandwidth models the four pipeline stages and identifies the
// bottleneck. It is a pure function of the project parameters: re-running it
// after a parameter edit always reflects the current values.
func ComputeBandwidth(project *api.Project) api.BandwidthModel {
	bw := project.Bandwidth
	agents := project.Agents

	model := api.BandwidthModel{
		SourceNicMbps:     bw.SourceNicSpeedMbps * bw.SourceUsablePct / 100.0,
		TransportLinkMbps: transportLink(project.Topology, bw),
		AgentIngestMbps:   agentIngest(agents),
		StorageWriteMbps:  bw.TargetStorageWriteMbps,
	}

	model.Bottleneck, model.BottleneckMbps = bottleneck(model)
	return model
}

// transportLink is topology dependent: local links are a plain derate,
// cross-site links are additionally bounded by the uplink/downlink capacities
// and penalized for latency.
func transportLink(topology api.Topology, bw api.BandwidthParams) float64 {
	effective := bw.LinkSpeedMbps * bw.LinkUsablePct / 100.0
	if topology == api.TopologyLocal {
		return effective
	}

	if bw.SourceUploadMbps > 0 && bw.SourceUploadMbps < effective {
		effective = bw.SourceUploadMbps
	}
	if bw.DestDownloadMbps > 0 && bw.DestDownloadMbps < effective {
		effective = bw.DestDownloadMbps
	}

	switch {
	case bw.RoundTripMs >= rttHighMs:
		effective *= rttHighPenalty
	case bw.RoundTripMs >= rttModerateMs:
		effective *= rttModeratePenalty
	}
	return effective
}

// agentIngest is the fleet's aggregate slot throughput capped by its NIC.
func agentIngest(agents api.AgentProfile) float64 {
	slots := float64(agents.AgentCount * agents.ConcurrentVMsPerAgent)
	ingest := slots * agents.PerSlotThroughputMbps
	nicCap := agents.NicSpeedMbps * agents.NicUsablePct / 100.0 * float64(agents.AgentCount)
	if nicCap > 0 && ingest > nicCap {
		ingest = nicCap
	}
	return ingest
}

func bottleneck(model api.BandwidthModel) (api.BandwidthStage, float64) {
	stage := api.StageSourceNic
	value := model.SourceNicMbps

	if model.TransportLinkMbps < value {
		stage, value = api.StageTransportLink, model.TransportLinkMbps
	}
	if model.AgentIngestMbps < value {
		stage, value = api.StageAgentIngest, model.AgentIngestMbps
	}
	if model.StorageWriteMbps < value {
		stage, value = api.StageStorageWrite, model.StorageWriteMbps
	}
	return stage, value
}
