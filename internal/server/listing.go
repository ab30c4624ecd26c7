package server

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
)

// listingEntry is one row in a directory listing.
type listingEntry struct {
	Name  string
	Href  string
	Size  string
	Mod   string
	IsDir bool
}

// listingData feeds the listing template.
type listingData struct {
	Path    string
	Parent  string
	Entries []listingEntry
}

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>dish · {{.Path}}</title>
<style>
  body { background: #14142B; color: #EEEEEE; font-family: monospace; margin: 2em auto; max-width: 52em; padding: 0 1em; }
  h1 { color: #FF2E97; font-size: 1.1em; border-bottom: 1px solid #2A2A4A; padding-bottom: .5em; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: .3em .5em; border-bottom: 1px solid #2A2A4A; }
  td.size, td.mod { color: #AAAACC; text-align: right; white-space: nowrap; }
  a { color: #EEEEEE; text-decoration: none; }
  a:hover { color: #FF2E97; }
  a.dir { color: #00FFFF; }
</style>
</head>
<body>
<h1>{{.Path}}</h1>
<table>
{{- if .Parent}}
<tr><td><a class="dir" href="{{.Parent}}">..</a></td><td class="size"></td><td class="mod"></td></tr>
{{- end}}
{{- range .Entries}}
<tr><td><a {{if .IsDir}}class="dir" {{end}}href="{{.Href}}">{{.Name}}</a></td><td class="size">{{.Size}}</td><td class="mod">{{.Mod}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// serveListing renders a directory as HTML. The page is built into a
// buffer first so Content-Length is known up front and byte accounting
// sees the full response size.
func (h *handler) serveListing(w http.ResponseWriter, r *http.Request, full string) {
	dirents, err := os.ReadDir(full)
	if err != nil {
		h.log.Error("read dir %s: %v", full, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	urlPath := path.Clean("/" + r.URL.Path)
	data := listingData{Path: urlPath}
	if urlPath != "/" {
		data.Parent = path.Dir(urlPath)
	}

	for _, d := range dirents {
		info, err := d.Info()
		if err != nil {
			continue
		}

		e := listingEntry{
			Name:  d.Name(),
			Href:  path.Join(urlPath, url.PathEscape(d.Name())),
			Mod:   humanize.Time(info.ModTime()),
			IsDir: d.IsDir(),
		}
		if d.IsDir() {
			e.Name += "/"
			e.Href += "/"
		} else {
			e.Size = humanize.Bytes(uint64(info.Size()))
		}
		data.Entries = append(data.Entries, e)
	}

	// Directories first, then by name.
	sort.Slice(data.Entries, func(i, j int) bool {
		if data.Entries[i].IsDir != data.Entries[j].IsDir {
			return data.Entries[i].IsDir
		}
		return data.Entries[i].Name < data.Entries[j].Name
	})

	var buf bytes.Buffer
	if err := listingTmpl.Execute(&buf, data); err != nil {
		h.log.Error("render listing %s: %v", urlPath, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Write(buf.Bytes())
}
