// Package opendata queries CKAN-compatible open-data catalogs such as
// dati.gov.it and data.europa.eu.
package opendata
