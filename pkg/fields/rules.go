package fields

import (
	"strings"
)

// seedNodeTypes lists node types known to carry a sampling seed. A table
// match here classifies the seed-named slot regardless of value shape.
var seedNodeTypes = map[string]bool{
	"KSampler":             true,
	"KSamplerAdvanced":     true,
	"KSampler (Efficient)": true,
	"SamplerCustom":        true,
	"RandomNoise":          true,
	"NoiseInjection":       true,
}

// textNodeFields maps node types known to carry free text to the field names
// that hold it.
var textNodeFields = map[string][]string{
	"CLIPTextEncode":          {"text"},
	"CLIPTextEncodeSDXL":      {"text_g", "text_l"},
	"ImpactWildcardProcessor": {"wildcard_text", "populated_text"},
	"ShowText":                {"text"},
	"String Literal":          {"string"},
}

// widgetFieldNames maps a declared node type to its widget field names in
// slot order. This is the positional addressing table: classification uses
// it to name slots and reconciliation uses it in reverse.
var widgetFieldNames = map[string][]string{
	"KSampler":               {"seed", "control_after_generate", "steps", "cfg", "sampler_name", "scheduler", "denoise"},
	"KSamplerAdvanced":       {"add_noise", "noise_seed", "control_after_generate", "steps", "cfg", "sampler_name", "scheduler", "start_at_step", "end_at_step", "return_with_leftover_noise"},
	"KSampler (Efficient)":   {"seed", "steps", "cfg", "sampler_name", "scheduler", "denoise", "preview_method", "vae_decode"},
	"SamplerCustom":          {"add_noise", "noise_seed", "cfg"},
	"RandomNoise":            {"noise_seed", "control_after_generate"},
	"NoiseInjection":         {"seed", "strength"},
	"CLIPTextEncode":         {"text"},
	"CheckpointLoaderSimple": {"ckpt_name"},
	"LoraLoader":             {"lora_name", "strength_model", "strength_clip"},
	"LoraLoaderModelOnly":    {"lora_name", "strength_model"},
	"VAELoader":              {"vae_name"},
	"UNETLoader":             {"unet_name", "weight_dtype"},
	"CLIPLoader":             {"clip_name", "type"},
	"DualCLIPLoader":         {"clip_name1", "clip_name2", "type"},
	"EmptyLatentImage":       {"width", "height", "batch_size"},
	"EmptySD3LatentImage":    {"width", "height", "batch_size"},
	"LatentUpscale":          {"upscale_method", "width", "height", "crop"},
	"LoadImage":              {"image", "upload"},
	"SaveImage":              {"filename_prefix"},
	"PreviewImage":           {},
	"ImageScale":             {"upscale_method", "width", "height", "crop"},
	"BasicScheduler":         {"scheduler", "steps", "denoise"},
	"KSamplerSelect":         {"sampler_name"},
	"CFGGuider":              {"cfg"},
	"FluxGuidance":           {"guidance"},
}

// WidgetName resolves a positional slot index to its field name.
func WidgetName(declaredType string, index int) (string, bool) {
	names, ok := widgetFieldNames[declaredType]
	if !ok || index < 0 || index >= len(names) {
		return "", false
	}
	return names[index], true
}

// WidgetIndex resolves a field name to its positional slot index. This is the
// declared-type→field-name table consulted during reconciliation.
func WidgetIndex(declaredType, field string) (int, bool) {
	for i, name := range widgetFieldNames[declaredType] {
		if name == field {
			return i, true
		}
	}
	return 0, false
}

// knownParamField reports whether the addressing table knows this exact
// (type, field) pair, making the slot config-known for the parameter
// classifier.
func knownParamField(declaredType, field string) bool {
	_, ok := WidgetIndex(declaredType, field)
	return ok
}

// modelSuffixes are file suffixes of loadable model weights.
var modelSuffixes = []string{".safetensors", ".ckpt", ".pt", ".pth", ".sft", ".gguf", ".bin"}

// imageSuffixes are file suffixes routed to the input-image catalog.
var imageSuffixes = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif"}

// controlKeywords are widget control words, never free text.
var controlKeywords = map[string]bool{
	"fixed":     true,
	"increment": true,
	"decrement": true,
	"randomize": true,
}

// staticOptions maps known dropdown parameter names to their option lists.
var staticOptions = map[string][]string{
	"sampler_name":           {"euler", "euler_ancestral", "heun", "heunpp2", "dpm_2", "dpm_2_ancestral", "lms", "dpm_fast", "dpm_adaptive", "dpmpp_2s_ancestral", "dpmpp_sde", "dpmpp_2m", "dpmpp_2m_sde", "dpmpp_3m_sde", "ddim", "uni_pc", "uni_pc_bh2"},
	"scheduler":              {"normal", "karras", "exponential", "sgm_uniform", "simple", "ddim_uniform", "beta"},
	"upscale_method":         {"nearest-exact", "bilinear", "area", "bicubic", "lanczos"},
	"crop":                   {"disabled", "center"},
	"weight_dtype":           {"default", "fp8_e4m3fn", "fp8_e4m3fn_fast", "fp8_e5m2"},
	"control_after_generate": {"fixed", "increment", "decrement", "randomize"},
}

// knownParamNames is the curated list of short-string parameter names that
// are surfaced rather than dropped. Names with static options become
// dropdowns; the rest degrade to free text.
var knownParamNames = map[string]bool{
	"sampler_name":           true,
	"scheduler":              true,
	"upscale_method":         true,
	"crop":                   true,
	"weight_dtype":           true,
	"control_after_generate": true,
	"filename_prefix":        true,
	"pix_fmt":                true,
	"format":                 true,
	"mode":                   true,
	"type":                   true,
}

// catalogByField maps model-bearing field names to the catalog that lists
// their options.
var catalogByField = map[string]string{
	"ckpt_name":  "checkpoints",
	"lora_name":  "loras",
	"vae_name":   "vae",
	"unet_name":  "diffusion_models",
	"clip_name":  "text_encoders",
	"clip_name1": "text_encoders",
	"clip_name2": "text_encoders",
	"image":      "input",
}

// catalogFor infers the catalog a model/image reference belongs to from the
// field name, falling back to a suffix-based guess.
func catalogFor(field, value string) string {
	if cat, ok := catalogByField[field]; ok {
		return cat
	}
	lower := strings.ToLower(value)
	switch {
	case hasAnySuffix(lower, imageSuffixes):
		return "input"
	case strings.Contains(strings.ToLower(field), "lora"):
		return "loras"
	case strings.Contains(strings.ToLower(field), "vae"):
		return "vae"
	default:
		return "checkpoints"
	}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func isPureDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isBoolWord(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "enable", "disable", "on", "off":
		return true
	}
	return false
}
