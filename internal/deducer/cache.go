package deducer

import (
	"github.com/lichen-lang/lichen/internal/cache"
	"github.com/lichen-lang/lichen/internal/importer"
)

// RunCached behaves like Run followed by Write, except that when a
// prior run's artifacts are already cached under imp's fingerprint
// they are decoded and returned directly, skipping the pipeline
// entirely. fromCache reports whether the cache was used.
func RunCached(c *cache.Cache, imp importer.Importer) (artifacts Artifacts, fromCache bool, err error) {
	fp := cache.Fingerprint(imp)

	if raw, found, lookupErr := c.Lookup(fp); lookupErr != nil {
		return Artifacts{}, false, lookupErr
	} else if found {
		payload, decodeErr := cache.DecodePayload(raw)
		if decodeErr != nil {
			return Artifacts{}, false, decodeErr
		}
		return artifactsFromPayload(payload), true, nil
	}

	result := Run(imp)
	artifacts = Write(result, ModuleNames(imp))

	if _, storeErr := c.Store(fp, cache.EncodePayload(payloadFromArtifacts(artifacts))); storeErr != nil {
		return artifacts, false, storeErr
	}
	return artifacts, false, nil
}

func payloadFromArtifacts(a Artifacts) cache.Payload {
	return cache.Payload{
		Mutations:         a.Mutations,
		Types:             a.Types,
		TypeSummary:       a.TypeSummary,
		TypeWarnings:      a.TypeWarnings,
		Guards:            a.Guards,
		Attributes:        a.Attributes,
		AttributeSummary:  a.AttributeSummary,
		Tests:             a.Tests,
		AttributeWarnings: a.AttributeWarnings,
	}
}

func artifactsFromPayload(p cache.Payload) Artifacts {
	return Artifacts{
		Mutations:         p.Mutations,
		Types:             p.Types,
		TypeSummary:       p.TypeSummary,
		TypeWarnings:      p.TypeWarnings,
		Guards:            p.Guards,
		Attributes:        p.Attributes,
		AttributeSummary:  p.AttributeSummary,
		Tests:             p.Tests,
		AttributeWarnings: p.AttributeWarnings,
	}
}
