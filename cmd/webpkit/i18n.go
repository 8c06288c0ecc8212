// Package main provides localization for the webpkit CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Logging": "ログ",
		"Runtime": "実行環境",
		"Codec":   "コーデック",

		// Root command
		"Encode, decode and inspect WebP images and animations": "WebP 画像とアニメーションのエンコード、デコード、解析",
		"Interrupted, shutting down...":                         "中断されました。終了します...",
		"%s: expected %d arguments, got %d":                     "%s: 引数は %d 個必要です (%d 個指定されました)",

		// Global flags
		"Log level (debug, info, warn, error, quiet)":                   "ログレベル (debug, info, warn, error, quiet)",
		"Log format (console, json)":                                    "ログ形式 (console, json)",
		"YAML profile with default settings":                            "既定値を記述した YAML プロファイル",
		"Codec engine (auto, native, wasm)":                             "コーデックエンジン (auto, native, wasm)",
		"Decode animation frames on this many workers (0 = sequential)": "アニメーションのデコードに使うワーカー数 (0 = 逐次)",

		// Commands
		"Encode a PNG or JPEG image as WebP":                         "PNG または JPEG 画像を WebP にエンコード",
		"Decode a still WebP into PNG or JPEG":                       "静止画 WebP を PNG または JPEG にデコード",
		"Build an animated WebP from still images":                   "静止画からアニメーション WebP を作成",
		"Write the frames of an animated WebP as numbered PNG files": "アニメーション WebP の各フレームを連番 PNG として書き出し",
		"Describe the frames of an animated WebP":                    "アニメーション WebP のフレーム構成を表示",
		"Render the frames of an animated WebP as a contact sheet":   "アニメーション WebP のフレームを一覧画像に描画",

		// Codec flags
		"Preset (default, picture, photo, drawing, icon, text)": "プリセット (default, picture, photo, drawing, icon, text)",
		"Quality 0-100":                                     "品質 0-100",
		"Encode losslessly":                                 "ロスレスでエンコード",
		"Lossless level 0-9 (requires --lossless)":          "ロスレスレベル 0-9 (--lossless が必要)",
		"Compression method 0-6":                            "圧縮メソッド 0-6",
		"Target size in bytes (lossy only)":                 "目標ファイルサイズ (バイト, 非可逆のみ)",
		"Passes used to reach the target size (1-10)":       "目標サイズに近づけるパス数 (1-10)",
		"Keep RGB values under transparent pixels":          "透明ピクセルの RGB 値を保持",

		// Command flags
		"Pixel layout of decoded frames (RGB, RGBA, BGRA, ...)": "デコード後のピクセル配置 (RGB, RGBA, BGRA, ...)",
		"Frames per second":                     "フレームレート",
		"Loop count (0 = infinite)":             "ループ回数 (0 = 無限)",
		"Resample to a constant frame rate":     "一定のフレームレートに変換",
		"Print a Markdown report":               "Markdown 形式で出力",
		"Thumbnails per row":                    "1 行あたりのサムネイル数",
		"Thumbnail width in pixels":             "サムネイルの幅 (ピクセル)",
		"Omit frame end times":                  "フレーム終了時刻を表示しない",
		"TrueType font for labels":              "ラベルに使う TrueType フォント",

		// Inspection report
		"Animation Summary": "アニメーション概要",
		"Item":              "項目",
		"Value":             "値",
		"Canvas":            "キャンバス",
		"Alpha":             "アルファ",
		"Yes":               "あり",
		"No":                "なし",
		"Frame Count":       "フレーム数",
		"Duration":          "再生時間",
		"Loop Count":        "ループ回数",
		"Infinite":          "無限",
		"Background":        "背景色",
		"File Size":         "ファイルサイズ",
		"Frames":            "フレーム",
		"Offset":            "位置",
		"Size":              "サイズ",
		"End":               "終了",
		"Blend":             "ブレンド",
		"Dispose":           "破棄",
		"Bytes":             "バイト数",
		"Metadata":          "メタデータ",
		"Generated by":      "作成",
	})
}
