// Package internal contains the packages behind the folio CLI.
//
// # Package Organization
//
//   - styles: link style fragments, their composition per variant, and the
//     generated class names and stylesheet
//   - components: NavLink, Link and ButtonLink anchor components
//   - content: page data, the query result decoder, and content sources
//   - layout: route classification and the default site layout
//   - page: renders one page inside a layout
//   - site: renders every page of a source to an output directory
//   - watcher: debounced file watching for rebuilds
//   - config, logging, errors, version: ambient support for the CLI
//
// # Data Flow
//
// A content source yields page data keyed by slug. The page renderer asks the
// layout package whether the slug is a docs route, hands that decision and
// the site chrome to the layout, and injects the page's trusted markup as the
// layout's children. The site builder does this for every slug with a
// bounded pool of workers and collects per-page failures.
package internal
