// Package xmlresp builds the DIAL <service> XML document (spec.md §4.9).
package xmlresp

import (
	"fmt"
	"strings"

	"github.com/sebas/dialserver/internal/dial/state"
)

// Schema is the DIAL protocol XML namespace.
const Schema = "urn:dial-multiscreen-org:schemas:dial"

// DialVersion is the protocol version advertised in every response.
const DialVersion = "2.1"

// ContentType is the HTTP content type every XML response carries.
const ContentType = "text/xml; charset=utf-8"

// Service is the data a GET_app response renders.
type Service struct {
	AppName string
	State   state.AppState
	// RunLinkHref, when non-empty, is rendered as <link rel="run"
	// href="..."/>; omitted automatically when State == Stopped
	// regardless of this field (spec.md §4.9).
	RunLinkHref string
	// Options holds the optional <options key="value" .../> attributes,
	// sourced from a registration's display name per SPEC_FULL.md §3.7.
	Options map[string]string
	// AdditionalData, when non-empty, is rendered verbatim inside
	// <additionalData>.
	AdditionalData string
}

// Build renders the exact XML document specified in spec.md §4.9.
func Build(svc Service) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, "<service xmlns=\"%s\" dialVer=\"%s\">\n", Schema, DialVersion)
	fmt.Fprintf(&b, "  <name>%s</name>\n", escape(svc.AppName))

	if len(svc.Options) > 0 {
		b.WriteString("  <options")
		for _, k := range sortedKeys(svc.Options) {
			fmt.Fprintf(&b, " %s=%q", k, svc.Options[k])
		}
		b.WriteString("/>\n")
	}

	fmt.Fprintf(&b, "  <state>%s</state>\n", svc.State.String())

	if svc.State != state.Stopped && svc.RunLinkHref != "" {
		fmt.Fprintf(&b, "  <link rel=\"run\" href=\"%s\"/>\n", escape(svc.RunLinkHref))
	}

	if svc.AdditionalData != "" {
		fmt.Fprintf(&b, "  <additionalData>%s</additionalData>\n", svc.AdditionalData)
	}

	b.WriteString("</service>\n")
	return b.String()
}

func escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Small, fixed option sets in practice; a simple insertion sort
	// keeps output deterministic without pulling in sort for one call
	// site of usually a single key.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
