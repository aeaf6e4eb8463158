package scene

import (
	"fmt"

	"knotscene/internal/config"
)

// StandardMaterial is the diffuse/specular/emissive triple assigned to one mesh.
type StandardMaterial struct {
	Name     string
	Diffuse  Color3
	Specular Color3
	Emissive Color3
	// SpecularPower is the Blinn-Phong exponent.
	SpecularPower float32
}

// NewStandardMaterial parses the configured hex colors.
// Emissive is the parsed color scaled by EmissiveScale and nothing else.
func NewStandardMaterial(name string, cfg config.Material) (StandardMaterial, error) {
	diffuse, err := Color3FromHex(cfg.Diffuse)
	if err != nil {
		return StandardMaterial{}, fmt.Errorf("material %s diffuse: %w", name, err)
	}
	specular, err := Color3FromHex(cfg.Specular)
	if err != nil {
		return StandardMaterial{}, fmt.Errorf("material %s specular: %w", name, err)
	}
	emissive, err := Color3FromHex(cfg.Emissive)
	if err != nil {
		return StandardMaterial{}, fmt.Errorf("material %s emissive: %w", name, err)
	}
	return StandardMaterial{
		Name:          name,
		Diffuse:       diffuse,
		Specular:      specular,
		Emissive:      emissive.Scale(cfg.EmissiveScale),
		SpecularPower: 64,
	}, nil
}
