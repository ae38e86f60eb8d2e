// Package docs turns repository change lists into search documents.
//
// A run receives JSON arrays of new, updated and deleted file paths. Each
// markdown path that passes the exclusion filter is read and converted into a
// search.Document whose ObjectID is the section prefix followed by the path
// without its ".md" extension. The title is taken from the first "# " heading
// line and falls back to the ObjectID.
package docs
