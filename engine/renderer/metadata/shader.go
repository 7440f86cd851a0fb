package metadata

import "strings"

/** @brief Shader stages. Values match the Vulkan stage flag bits. */
type ShaderStage uint32

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageGeometry ShaderStage = 0x00000008
	ShaderStageFragment ShaderStage = 0x00000010
	ShaderStageCompute  ShaderStage = 0x00000020
)

func (s ShaderStage) String() string {
	var names []string
	if s&ShaderStageVertex != 0 {
		names = append(names, "vertex")
	}
	if s&ShaderStageGeometry != 0 {
		names = append(names, "geometry")
	}
	if s&ShaderStageFragment != 0 {
		names = append(names, "fragment")
	}
	if s&ShaderStageCompute != 0 {
		names = append(names, "compute")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

/**
 * @brief A compiled shader module bound to the stage it runs in.
 */
type ShaderStageConfig struct {
	/** @brief The stage this module is used for. */
	Stage ShaderStage
	/** @brief The backend shader module. */
	Module ShaderModule
	/** @brief The entry point, "main" when empty. */
	EntryPoint string
}

/**
 * @brief A push constant range of a pipeline layout.
 */
type PushConstantRange struct {
	/** @brief The stages that can read the range. */
	Stages ShaderStage
	/** @brief The Offset in bytes, aligned to 4. */
	Offset uint32
	/** @brief The Size in bytes, a multiple of 4. */
	Size uint32
}
