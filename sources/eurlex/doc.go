// Package eurlex queries EU law through the CELLAR SPARQL endpoint.
package eurlex
