package processors

import (
	"docpipe/internal/pipeline"
	"docpipe/internal/processors/provider"
)

// RegisterAll wires every built-in processor factory into the registry. The
// lookup processor is only available when at least one provider is
// configured.
func RegisterAll(reg *pipeline.Registry, lookupProviders map[string]provider.Provider) {
	reg.Register("set", NewSetFactory())
	reg.Register("append", NewAppendFactory())
	reg.Register("remove", NewRemoveFactory())
	reg.Register("rename", NewRenameFactory())
	reg.Register("uppercase", NewUppercaseFactory())
	reg.Register("lowercase", NewLowercaseFactory())
	reg.Register("split", NewSplitFactory())
	reg.Register("join", NewJoinFactory())
	reg.Register("transform", NewTransformFactory())
	if len(lookupProviders) > 0 {
		reg.Register("lookup", NewLookupFactory(lookupProviders))
	}
}
