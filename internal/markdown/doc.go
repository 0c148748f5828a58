// Package markdown holds the default collaborators of the line buffer: the
// splitter that segments note text into editable lines, the line parser that
// maps a line onto the block grammar, outline extraction and front matter.
package markdown
