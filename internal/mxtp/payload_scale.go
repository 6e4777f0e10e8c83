package mxtp

import (
	"fmt"

	"github.com/axonmocap/mxtpd/internal/wire"
)

// DecodeScaleInfo decodes a type-13 payload: a segment-name/origin table
// followed by a point-name/offset table, each prefixed with its own 32-bit
// count. A character's full scale model is assembled from one or more such
// packets arriving across samples with no sequence marker beyond
// sample_counter — this decoder returns one packet's contents verbatim;
// merging across packets is the caller's responsibility.
func DecodeScaleInfo(payload []byte) (*ScaleInfo, error) {
	c := wire.NewCursor(payload)

	segmentCount, err := c.ReadU32BE()
	if err != nil {
		return nil, &DecodeError{Field: "segment_count", Err: err}
	}
	segments := make([]ScaleSegment, 0, segmentCount)
	for i := uint32(0); i < segmentCount; i++ {
		name, err := c.ReadLenPrefixedString()
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("segment[%d].name", i), Err: err}
		}
		origin, err := readPosition(c)
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("segment[%d].origin", i), Err: err}
		}
		segments = append(segments, ScaleSegment{Name: name, Origin: origin})
	}

	pointCount, err := c.ReadU32BE()
	if err != nil {
		return nil, &DecodeError{Field: "point_count", Err: err}
	}
	points := make([]ScalePoint, 0, pointCount)
	for i := uint32(0); i < pointCount; i++ {
		segID, err := c.ReadU16BE()
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("point[%d].segment_id", i), Err: err}
		}
		pointID, err := c.ReadU16BE()
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("point[%d].point_id", i), Err: err}
		}
		name, err := c.ReadLenPrefixedString()
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("point[%d].name", i), Err: err}
		}
		flags, err := c.ReadU32BE()
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("point[%d].flags", i), Err: err}
		}
		offset, err := readPosition(c)
		if err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("point[%d].offset", i), Err: err}
		}
		points = append(points, ScalePoint{SegmentID: segID, PointID: pointID, Name: name, Flags: flags, Offset: offset})
	}

	return &ScaleInfo{Segments: segments, Points: points}, nil
}

// EncodeScaleInfo serializes info as a type-13 payload.
func EncodeScaleInfo(info *ScaleInfo) []byte {
	w := wire.NewWriter(8)
	w.WriteU32BE(uint32(len(info.Segments)))
	for _, seg := range info.Segments {
		w.WriteLenPrefixedString(seg.Name)
		writePosition(w, seg.Origin)
	}
	w.WriteU32BE(uint32(len(info.Points)))
	for _, pt := range info.Points {
		w.WriteU16BE(pt.SegmentID)
		w.WriteU16BE(pt.PointID)
		w.WriteLenPrefixedString(pt.Name)
		w.WriteU32BE(pt.Flags)
		writePosition(w, pt.Offset)
	}
	return w.Bytes()
}

// MergeScaleInfo folds a newly decoded packet into an accumulated scale
// model, replacing any segment or point whose identifying key (name for
// segments, segment_id+point_id for points) already exists — last-delta-
// wins, matching how a live stream supersedes earlier scale packets.
func MergeScaleInfo(acc *ScaleInfo, delta *ScaleInfo) *ScaleInfo {
	if acc == nil {
		acc = &ScaleInfo{}
	}
	segByName := make(map[string]int, len(acc.Segments))
	for i, s := range acc.Segments {
		segByName[s.Name] = i
	}
	for _, s := range delta.Segments {
		if i, ok := segByName[s.Name]; ok {
			acc.Segments[i] = s
		} else {
			segByName[s.Name] = len(acc.Segments)
			acc.Segments = append(acc.Segments, s)
		}
	}

	type pointKey struct {
		segID, pointID uint16
	}
	ptByKey := make(map[pointKey]int, len(acc.Points))
	for i, p := range acc.Points {
		ptByKey[pointKey{p.SegmentID, p.PointID}] = i
	}
	for _, p := range delta.Points {
		k := pointKey{p.SegmentID, p.PointID}
		if i, ok := ptByKey[k]; ok {
			acc.Points[i] = p
		} else {
			ptByKey[k] = len(acc.Points)
			acc.Points = append(acc.Points, p)
		}
	}
	return acc
}
