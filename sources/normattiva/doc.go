// Package normattiva fetches Italian legislation from the Normattiva
// portal by URN-NIR identifier.
package normattiva
