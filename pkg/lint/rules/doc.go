// Package rules provides the built-in lint rules.
//
//   - MDF001 heading-hierarchy: heading levels increase one step at a time.
//     Fixable for ATX headings.
//   - MDF002 duplicate-reference: each reference label and footnote
//     identifier is defined once.
//   - MDF003 yaml-metadata: the metadata block at the top of the document
//     is valid YAML.
package rules
