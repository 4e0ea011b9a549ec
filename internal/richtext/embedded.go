package richtext

import (
	"strconv"

	"casefolio.dev/portfolio-web/internal/content"
	"casefolio.dev/portfolio-web/internal/viewmodel"
)

// renderFigure draws an embedded asset, or a placeholder while the asset has no file URL.
// Null targets render nothing.
func renderFigure(w *writer, target content.Value) {
	if _, isNull := target.(content.Null); isNull || target == nil {
		return
	}
	img, ok := viewmodel.ImageFrom(target)
	w.raw("<figure>")
	if ok {
		w.raw(`<img class="gallery-img" data-zoomable="true" loading="lazy"`)
		w.attr("src", img.URL)
		w.attr("alt", img.Alt(""))
		w.raw(">")
	} else {
		w.raw(`<div class="gallery-img asset-placeholder">`)
		w.text(processingText)
		w.raw("</div>")
	}
	if caption := img.Caption(); caption != "" {
		w.raw(`<figcaption class="figure-caption">`)
		w.text(caption)
		w.raw("</figcaption>")
	}
	w.raw("</figure>")
}

func renderBlockEntry(w *writer, target content.Value) {
	ref, ok := target.(content.Ref)
	if !ok || ref.Record == nil {
		return
	}
	if ref.Record.ContentType != galleryContentType {
		w.raw(`<div class="embedded-unknown">`)
		w.text(unknownEntryText)
		w.raw("</div>")
		return
	}

	showCaptions := ref.Record.Flag("showCaptions")
	w.raw(`<section class="image-gallery"><div class="image-grid">`)
	for i, item := range viewmodel.Values(ref.Record.Field("images")) {
		img, ok := viewmodel.ImageFrom(item)
		w.raw(`<div class="gallery-item"><figure>`)
		if ok {
			w.raw(`<img class="gallery-img" data-zoomable="true" loading="lazy"`)
			w.attr("src", img.URL)
			alt := img.Title
			if alt == "" {
				alt = "Gallery image " + strconv.Itoa(i+1)
			}
			w.attr("alt", alt)
			w.raw(">")
		} else {
			w.raw(`<div class="gallery-img asset-placeholder">`)
			w.text(processingShortText)
			w.raw("</div>")
		}
		if caption := img.Caption(); showCaptions && caption != "" {
			w.raw(`<figcaption class="figure-caption">`)
			w.text(caption)
			w.raw("</figcaption>")
		}
		w.raw("</figure></div>")
	}
	w.raw("</div></section>")
}

// renderInlineEntry draws gallery thumbnails inline. Galleries without any resolvable
// image and other entry kinds render nothing.
func renderInlineEntry(w *writer, target content.Value) {
	ref, ok := target.(content.Ref)
	if !ok || ref.Record == nil || ref.Record.ContentType != galleryContentType {
		return
	}
	var urls []string
	for _, item := range viewmodel.Values(ref.Record.Field("media")) {
		if u, ok := viewmodel.AssetURL(item); ok {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return
	}
	title := ref.Record.Text("title")
	w.raw(`<span class="inline-gallery">`)
	if title != "" {
		w.raw(`<span class="inline-gallery-title">`)
		w.text(title)
		w.raw("</span>")
	}
	w.raw(`<span class="inline-gallery-thumbs">`)
	for i, u := range urls {
		alt := title
		if alt == "" {
			alt = "Gallery thumbnail " + strconv.Itoa(i+1)
		}
		w.raw(`<img class="inline-gallery-thumb" loading="lazy"`)
		w.attr("src", u)
		w.attr("alt", alt)
		w.raw(">")
	}
	w.raw("</span></span>")
}
