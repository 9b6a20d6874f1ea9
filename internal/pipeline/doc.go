// Package pipeline turns crawl hits into output rows.
//
// A crawl runs four steps over a shared Batch:
//
//  1. CollectStep: crawl and gather entities with their page context
//  2. AssembleStep: build result rows and apply the data and required-field filters
//  3. MergeStep: drop rows whose e-mail or URL is already known, appending to prior output
//  4. ProjectStep: keep only the requested fields
//
// Each step implements Step and the Pipeline runs them in order, stopping at
// the first error.
package pipeline
