// Package rules implements the matching engine that decides which icon
// configuration applies to a crawled folder.
//
// The engine is built from small combinators, leaf to root:
//
//   - value expansion: a configured rule value is expanded into a
//     deduplicated candidate set via case normalization and optional
//     before/after decoration
//   - SingleRule: one predicate over one folder attribute with one
//     comparison mode, ANY/ALL across its candidates
//   - AttributeChecker: SingleRules for one attribute, ANY/ALL combined
//   - RuleChecker: AttributeCheckers across attributes, ANY/ALL combined
//   - Manager: a RuleChecker bound to an icon config name and an
//     ordering weight; ExcludeManager: ORed RuleCheckers used to prune
//     subtrees before matching
//
// All construction and value expansion happens once at load time
// (Build/CleanEmpty); evaluation against folder entries is pure and safe
// for concurrent use.
package rules
