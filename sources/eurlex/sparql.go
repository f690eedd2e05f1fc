package eurlex

import (
	"fmt"
	"strings"
)

const sparqlPrefixes = `PREFIX cdm: <http://publications.europa.eu/ontology/cdm#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
`

// escapeLiteral makes a user string safe inside a SPARQL string literal.
func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// SearchByTitleQuery builds a SELECT over works whose expression title
// contains the given text, case-insensitively.
func SearchByTitleQuery(text string, limit int) string {
	if limit <= 0 {
		limit = 20
	}
	return fmt.Sprintf(`%sSELECT DISTINCT ?work ?title ?celex WHERE {
  ?work cdm:work_id_document ?celexID .
  ?celexID skos:notation ?celex .
  ?expr cdm:expression_belongs_to_work ?work ;
        cdm:expression_title ?title .
  FILTER(CONTAINS(LCASE(STR(?title)), LCASE("%s")))
} LIMIT %d`, sparqlPrefixes, escapeLiteral(text), limit)
}

// ByCELEXQuery builds a SELECT resolving one document by CELEX number.
func ByCELEXQuery(celex string) string {
	return fmt.Sprintf(`%sSELECT DISTINCT ?work ?title ?date WHERE {
  ?work cdm:work_id_document ?celexID .
  ?celexID skos:notation "%s"^^<http://publications.europa.eu/ontology/cdm#celex> .
  OPTIONAL { ?work cdm:work_date_document ?date }
  OPTIONAL {
    ?expr cdm:expression_belongs_to_work ?work ;
          cdm:expression_title ?title .
  }
} LIMIT 10`, sparqlPrefixes, escapeLiteral(celex))
}

// InForceQuery builds a SELECT over legal acts in force on a date
// (YYYY-MM-DD).
func InForceQuery(date string, limit int) string {
	if limit <= 0 {
		limit = 20
	}
	return fmt.Sprintf(`%sSELECT DISTINCT ?work ?celex ?dateEntry WHERE {
  ?work cdm:work_id_document ?celexID .
  ?celexID skos:notation ?celex .
  ?work cdm:resource_legal_in-force "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
  ?work cdm:resource_legal_date_entry-into-force ?dateEntry .
  FILTER(?dateEntry <= "%s"^^<http://www.w3.org/2001/XMLSchema#date>)
} ORDER BY DESC(?dateEntry) LIMIT %d`, sparqlPrefixes, escapeLiteral(date), limit)
}
