package swagger

import _ "embed"

// SimulationSpec is the OpenAPI document of the Simulation Service.
//
//go:embed openapi/simulation.yaml
var SimulationSpec []byte

// SpatialSpec is the OpenAPI document of the Spatial Service.
//
//go:embed openapi/spatial.yaml
var SpatialSpec []byte
