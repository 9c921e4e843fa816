package fetch

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Mount names as they appear in the data files.
const (
	MountNikonF = "Nikon F"
	MountNikonZ = "Nikon Z"
)

// EquipmentClass selects one listing page on the manufacturer site.
type EquipmentClass int

const (
	FMountLensOld EquipmentClass = iota
	FMountLens
	ZMountLens
	SLRCamera
	SLRCameraOld
)

var listingURLs = map[EquipmentClass]string{
	FMountLensOld: "https://www.nikon-image.com/products/nikkor/discontinue_fmount/",
	FMountLens:    "https://www.nikon-image.com/products/nikkor/fmount/index.html",
	ZMountLens:    "https://www.nikon-image.com/products/nikkor/zmount/index.html",
	SLRCamera:     "https://www.nikon-image.com/products/slr/",
	SLRCameraOld:  "https://www.nikon-image.com/products/slr/discontinue_lineup/",
}

// LensClasses lists the classes enumerated for a lens fetch, oldest first
// so that the newest listing wins when a model appears twice.
var LensClasses = []EquipmentClass{FMountLensOld, FMountLens, ZMountLens}

// CameraClasses lists the classes enumerated for a camera fetch. Most of
// the bodies in the data file live on the discontinued listing.
var CameraClasses = []EquipmentClass{SLRCamera, SLRCameraOld}

// Equipment is one entry of a listing page.
type Equipment struct {
	Name string
	URL  string
}

// LensSpec is a scraped lens record, before it gets an ID.
type LensSpec struct {
	Name           string
	Brand          string
	Mount          string
	MinFocalLength float64
	MaxFocalLength float64
	MinFValue      float64
	MaxFValue      float64
	MinFocusDist   float64
}

// CameraSpec is a scraped camera record, before it gets an ID.
type CameraSpec struct {
	Name        string
	Brand       string
	Mount       string
	MediaWidth  float64
	MediaHeight float64
	SizeName    string
}

// Listing entries with no place in a depth-of-field table: teleconverters
// carry no focal length of their own, and the discontinued camera listing
// mixes in film bodies with no sensor to measure.
var ignoredEquipment = map[string]bool{
	// Teleconverters
	"AF-S TELECONVERTER TC-14E III":   true,
	"AF-S TELECONVERTER TC-20E III":   true,
	"AI AF-I Teleconverter TC-14E":    true,
	"AI AF-I Teleconverter TC-20E":    true,
	"AI AF-S TELECONVERTER TC-14E II": true,
	"AI AF-S TELECONVERTER TC-17E II": true,
	"AI AF-S TELECONVERTER TC-20E II": true,
	"AI TC-14AS":                      true,
	"AI TC-14BS":                      true,
	"AI TC-201S":                      true,
	"AI TC-301S":                      true,
	"Z TELECONVERTER TC-1.4x":         true,
	"Z TELECONVERTER TC-2.0x":         true,
	// Film cameras
	"E3/E3S":                   true,
	"F100":                     true,
	"F5":                       true,
	"F6":                       true,
	"F80D/F80S":                true,
	"FM10":                     true,
	"FM3A":                     true,
	"Lite Touch Zoom 100W QD":  true,
	"Lite Touch Zoom 120ED QD": true,
	"Lite Touch Zoom 130ED QD": true,
	"Lite Touch Zoom 140ED QD": true,
	"Lite Touch Zoom 150ED QD": true,
	"Lite Touch Zoom 70Ws QD":  true,
	"NIKONOS-V":                true,
	"Nuvis S":                  true,
	"Nuvis S2000":              true,
	"PRONEA S":                 true,
	"S3 (限定復刻版)":               true,
	"U":                        true,
	"U2":                       true,
	"US":                       true,
}

// Some spec pages omit or garble a field; these overrides fill the gap.
var knownCameraFixes = map[string]func(*CameraSpec){
	"D1": func(c *CameraSpec) { c.Mount = MountNikonF },
}

var knownLensFixes = map[string]func(*LensSpec){
	"AI AF Zoom-Nikkor 18-35mm f/3.5-4.5D IF-ED": func(l *LensSpec) { l.MinFValue = 3.5 },
	"AI AF Zoom Nikkor 24-50mm F3.3-4.5D":        func(l *LensSpec) { l.MinFocusDist = 600 },
	"AI Micro-Nikkor 55mm f/2.8S":                func(l *LensSpec) { l.MinFocusDist = 250 },
	"AI Micro-Nikkor 105mm f/2.8S": func(l *LensSpec) {
		l.MinFocalLength = 105
		l.MinFocusDist = 410
	},
}

var (
	reDiscontinued = regexp.MustCompile(`\s*(旧製品|＜NEW＞)$`)
	reNikkor       = regexp.MustCompile(`(?i)NIKKOR`)
	reTightParen   = regexp.MustCompile(`(\S)\(`)
)

// normalizeName cleans a listing title into the catalog form.
func normalizeName(name string) string {
	name = ToHalfWidth(name)
	name = reDiscontinued.ReplaceAllString(name, "")
	name = reNikkor.ReplaceAllString(name, "Nikkor")
	name = reTightParen.ReplaceAllString(name, "$1 (")
	return strings.TrimSpace(name)
}

// EnumerateEquipment lists the equipment on one listing page.
func EnumerateEquipment(ctx context.Context, c *Client, class EquipmentClass) ([]Equipment, error) {
	base, ok := listingURLs[class]
	if !ok {
		return nil, fmt.Errorf("unsupported equipment class: %d", class)
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	body, err := c.Fetch(ctx, base)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []Equipment
	for _, list := range elementsBy(doc, func(n *html.Node) bool {
		return isElement(n, "ul") && hasClass(n, "mod-goodsList-ul")
	}) {
		for _, a := range elementsBy(list, func(n *html.Node) bool { return isElement(n, "a") }) {
			title := firstElement(a, func(n *html.Node) bool { return hasClass(n, "mod-goodsList-title") })
			if title == nil {
				continue
			}
			name := normalizeName(textContent(title))
			if name == "" || ignoredEquipment[name] {
				continue
			}

			href := attrVal(a, "href")
			if href == "" || strings.HasPrefix(href, "javascript:") {
				continue
			}
			ref, err := url.Parse(href)
			if err != nil {
				continue
			}
			if ref.Hostname() != "" && ref.Hostname() != baseURL.Hostname() {
				c.log.Warn("skipping off-site listing entry",
					zap.String("name", name), zap.String("href", href))
				continue
			}
			out = append(out, Equipment{Name: name, URL: baseURL.ResolveReference(ref).String()})
		}
	}
	return out, nil
}

// specTable locates the spec table of a detail page, trying the layouts the
// site has used over the years. It returns the key/value rows and reports
// whether a table was found at all.
func specTable(doc *html.Node) ([][2]string, bool) {
	if t := firstElement(doc, func(n *html.Node) bool {
		return isElement(n, "table") && hasClass(n, "table-A01-group")
	}); t != nil {
		return tableRows(t, "th"), true
	}
	if t := tableAfterID(doc, "spec"); t != nil {
		// Older pages pair td cells; newer ones use th/td. Try both.
		if rows := tableRows(t, "th"); len(rows) > 0 {
			return rows, true
		}
		return tableRows(t, "td"), true
	}
	return nil, false
}

// ReadLens scrapes the spec table of one lens detail page. The page layout
// changed over the years; the main page is tried first, then the spec.html
// subpage used by the newest layout.
func ReadLens(ctx context.Context, c *Client, eq Equipment) (*LensSpec, error) {
	var firstErr error
	for _, uri := range []string{eq.URL, resolveRef(eq.URL, "spec.html")} {
		spec, err := readLensPage(ctx, c, eq, uri)
		if err == nil {
			return spec, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("cannot read spec of %q: %w", eq.Name, firstErr)
}

func readLensPage(ctx context.Context, c *Client, eq Equipment, uri string) (*LensSpec, error) {
	body, err := c.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	rows, ok := specTable(doc)
	if !ok {
		return nil, fmt.Errorf("spec table not found at %s", uri)
	}

	spec := &LensSpec{
		Name:           eq.Name,
		Brand:          "Nikon",
		MinFocalLength: math.NaN(),
		MaxFocalLength: math.NaN(),
		MinFValue:      math.NaN(),
		MaxFValue:      math.NaN(),
		MinFocusDist:   math.NaN(),
	}
	if strings.Contains(uri, "fmount/") {
		spec.Mount = MountNikonF
	} else if strings.Contains(uri, "zmount/") {
		spec.Mount = MountNikonZ
	}

	for _, kv := range rows {
		applyLensProperty(spec, kv[0], kv[1])
	}

	// Zoom range and aperture are usually encoded in the model name; use
	// it when the table came up empty.
	if math.IsNaN(spec.MinFocalLength) || math.IsNaN(spec.MaxFocalLength) {
		applyLensProperty(spec, "焦点距離", eq.Name)
	}
	if math.IsNaN(spec.MinFValue) {
		applyLensProperty(spec, "最大絞り", eq.Name)
	}
	if fix, ok := knownLensFixes[eq.Name]; ok {
		fix(spec)
	}

	if err := spec.complete(); err != nil {
		return nil, err
	}
	return spec, nil
}

func applyLensProperty(spec *LensSpec, key, value string) {
	switch key {
	case "型式":
		if m := parseMountName(value); m != "" {
			spec.Mount = m
		}
	case "焦点距離":
		ranges := MillimeterRanges(StripNotes(value))
		if len(ranges) > 0 {
			lo, hi := math.Inf(1), math.Inf(-1)
			for _, r := range ranges {
				lo = math.Min(lo, r[0])
				hi = math.Max(hi, r[1])
			}
			spec.MinFocalLength, spec.MaxFocalLength = lo, hi
		}
	case "最短撮影距離":
		if vals := MillimeterValues(StripNotes(value)); len(vals) > 0 {
			spec.MinFocusDist = minOf(vals)
		}
	case "最大絞り":
		if vals := FNumbers(value); len(vals) > 0 {
			spec.MinFValue = minOf(vals)
		}
	case "最小絞り":
		if vals := FNumbers(value); len(vals) > 0 {
			spec.MaxFValue = maxOf(vals)
		}
	}
}

func (l *LensSpec) complete() error {
	var missing []string
	check := func(name string, v float64) {
		if math.IsNaN(v) {
			missing = append(missing, name)
		}
	}
	check("min focal length", l.MinFocalLength)
	check("max focal length", l.MaxFocalLength)
	check("min f value", l.MinFValue)
	check("max f value", l.MaxFValue)
	check("min focus distance", l.MinFocusDist)
	if l.Mount == "" {
		missing = append(missing, "mount")
	}
	if len(missing) > 0 {
		return fmt.Errorf("cannot find %s", strings.Join(missing, ", "))
	}
	return nil
}

// ReadCamera scrapes the spec.html subpage of one camera detail page.
func ReadCamera(ctx context.Context, c *Client, eq Equipment) (*CameraSpec, error) {
	uri := resolveRef(eq.URL, "spec.html")
	body, err := c.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("cannot read spec of %q: %w", eq.Name, err)
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	rows, ok := specTable(doc)
	if !ok {
		return nil, fmt.Errorf("cannot read spec of %q: spec table not found at %s", eq.Name, uri)
	}

	spec := &CameraSpec{Name: eq.Name, Brand: "Nikon"}
	for _, kv := range rows {
		applyCameraProperty(spec, kv[0], kv[1])
	}
	if fix, ok := knownCameraFixes[eq.Name]; ok {
		fix(spec)
	}

	if spec.Mount == "" || spec.MediaWidth == 0 || spec.MediaHeight == 0 {
		return nil, fmt.Errorf("cannot read spec of %q: incomplete spec table at %s", eq.Name, uri)
	}
	return spec, nil
}

var reSizeFormat = regexp.MustCompile(`(DX|FX)\s*フォーマット`)

func applyCameraProperty(spec *CameraSpec, key, value string) {
	switch key {
	case "レンズマウント":
		if m := parseMountName(value); m != "" {
			spec.Mount = m
		}
	// Older bodies label the sensor row 撮像素子方式 or just 方式.
	case "撮像素子", "撮像素子方式", "方式":
		if areas := SquareMillimeters(value); len(areas) == 1 {
			spec.MediaWidth, spec.MediaHeight = areas[0][0], areas[0][1]
		}
		if m := reSizeFormat.FindStringSubmatch(value); m != nil {
			spec.SizeName = strings.ToUpper(m[1])
		}
	}
}

func parseMountName(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, "ニコンZマウント"):
		return MountNikonZ
	case strings.Contains(s, "ニコンFマウント"):
		return MountNikonF
	}
	return ""
}

func resolveRef(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return base
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base
	}
	return b.ResolveReference(r).String()
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		m = math.Max(m, v)
	}
	return m
}
