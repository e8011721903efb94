// Package report assembles analysis results into serializable reports and
// renders them as JSON or terminal tables.
package report
